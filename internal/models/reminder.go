package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingReminder — сообщение о предстоящем списании, публикуемое в очередь уведомлений.
type BillingReminder struct {
	SubscriptionID  string          `json:"subscription_id"`
	UserID          string          `json:"user_id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	NextBillingDate time.Time       `json:"next_billing_date"`
}
