// Package models содержит доменные структуры сервиса учёта подписок:
// подписку, категорию, пользователя, а также типы запросов, приходящих
// из HTTP-слоя, и производные структуры (страница выдачи, статистика).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle — периодичность списания по подписке.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "MONTHLY"
	BillingCycleYearly  BillingCycle = "YEARLY"
	BillingCycleWeekly  BillingCycle = "WEEKLY"
)

// Valid сообщает, входит ли значение в перечисление.
func (c BillingCycle) Valid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleYearly, BillingCycleWeekly:
		return true
	}
	return false
}

// SubscriptionStatus — состояние подписки.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "ACTIVE"
	StatusCancelled SubscriptionStatus = "CANCELLED"
	StatusPaused    SubscriptionStatus = "PAUSED"
	StatusTrial     SubscriptionStatus = "TRIAL"
)

// Valid сообщает, входит ли значение в перечисление.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusPaused, StatusTrial:
		return true
	}
	return false
}

// DefaultCurrency подставляется, если валюта не передана при создании.
const DefaultCurrency = "USD"

// Subscription — запись о регулярном платеже. Принадлежит ровно одному пользователю,
// все чтения и изменения выполняются в пределах UserID.
type Subscription struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Name            string             `json:"name"`
	Description     *string            `json:"description"`
	Category        string             `json:"category"` // имя категории, внешнего ключа нет
	Amount          decimal.Decimal    `json:"amount"`
	Currency        string             `json:"currency"`
	BillingCycle    BillingCycle       `json:"billingCycle"`
	IsTrial         bool               `json:"isTrial"`
	TrialEndDate    *time.Time         `json:"trialEndDate"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
	LastBillingDate *time.Time         `json:"lastBillingDate"`
	Status          SubscriptionStatus `json:"status"`
	Notes           *string            `json:"notes"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// CreateSubscriptionRequest используется для приёма тела запроса на создание подписки.
// Все проверки выполняет сервис.
type CreateSubscriptionRequest struct {
	Name            string             `json:"name"`
	Description     *string            `json:"description"`
	Category        string             `json:"category"`
	Amount          decimal.Decimal    `json:"amount"`
	Currency        string             `json:"currency"`
	BillingCycle    BillingCycle       `json:"billingCycle"`
	IsTrial         *bool              `json:"isTrial"`
	TrialEndDate    *Date              `json:"trialEndDate"`
	NextBillingDate *Date              `json:"nextBillingDate"`
	LastBillingDate *Date              `json:"lastBillingDate"`
	Status          SubscriptionStatus `json:"status"`
	Notes           *string            `json:"notes"`
}

// UpdateSubscriptionRequest — частичное обновление. Каждое поле различает
// три состояния: не передано, передано как null, передано со значением.
type UpdateSubscriptionRequest struct {
	Name            Optional[string]             `json:"name"`
	Description     Optional[string]             `json:"description"`
	Category        Optional[string]             `json:"category"`
	Amount          Optional[decimal.Decimal]    `json:"amount"`
	Currency        Optional[string]             `json:"currency"`
	BillingCycle    Optional[BillingCycle]       `json:"billingCycle"`
	IsTrial         Optional[bool]               `json:"isTrial"`
	TrialEndDate    Optional[Date]               `json:"trialEndDate"`
	NextBillingDate Optional[Date]               `json:"nextBillingDate"`
	LastBillingDate Optional[Date]               `json:"lastBillingDate"`
	Status          Optional[SubscriptionStatus] `json:"status"`
	Notes           Optional[string]             `json:"notes"`
}

// SubscriptionPatch — проверенный набор изменений, который передаётся в хранилище.
// Null допускается только для полей, которые в схеме могут быть NULL.
type SubscriptionPatch struct {
	Name            Optional[string]
	Description     Optional[string]
	Category        Optional[string]
	Amount          Optional[decimal.Decimal]
	Currency        Optional[string]
	BillingCycle    Optional[BillingCycle]
	IsTrial         Optional[bool]
	TrialEndDate    Optional[time.Time]
	NextBillingDate Optional[time.Time]
	LastBillingDate Optional[time.Time]
	Status          Optional[SubscriptionStatus]
	Notes           Optional[string]
}

// Empty сообщает, что патч не содержит ни одного изменения.
func (p SubscriptionPatch) Empty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Category.Set && !p.Amount.Set &&
		!p.Currency.Set && !p.BillingCycle.Set && !p.IsTrial.Set && !p.TrialEndDate.Set &&
		!p.NextBillingDate.Set && !p.LastBillingDate.Set && !p.Status.Set && !p.Notes.Set
}
