package subscription

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const (
	msgNameRequired     = "name is required"
	msgCategoryRequired = "category is required"
	msgAmountPositive   = "amount must be a positive number"
	msgAmountPrecision  = "amount must have at most 2 decimal places"
	msgAmountTooLarge   = "amount must be less than 10000000000"
	msgInvalidCycle     = "invalid billing cycle"
	msgNextDateRequired = "next billing date is required"
	msgInvalidStatus    = "invalid subscription status"
	msgInvalidCurrency  = "currency must be a 3-letter code"
	msgInvalidTrialFlag = "isTrial must be a boolean"
)

// maxAmount соответствует NUMERIC(12,2): не больше 10 знаков до запятой.
var maxAmount = decimal.New(1, 10)

func validateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperr.Validation(msgAmountPositive)
	}
	if !d.Equal(d.Truncate(2)) {
		return apperr.Validation(msgAmountPrecision)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return apperr.Validation(msgAmountTooLarge)
	}
	return nil
}

func normalizeCurrency(raw string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if currency == "" {
		return models.DefaultCurrency, nil
	}
	if len(currency) != 3 {
		return "", apperr.Validation(msgInvalidCurrency)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return "", apperr.Validation(msgInvalidCurrency)
		}
	}
	return currency, nil
}

// newSubscription проверяет запрос на создание и собирает запись
// со значениями по умолчанию.
func newSubscription(userID string, req models.CreateSubscriptionRequest) (models.Subscription, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Subscription{}, apperr.Validation(msgNameRequired)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return models.Subscription{}, apperr.Validation(msgCategoryRequired)
	}
	if err := validateAmount(req.Amount); err != nil {
		return models.Subscription{}, err
	}
	if !req.BillingCycle.Valid() {
		return models.Subscription{}, apperr.Validation(msgInvalidCycle)
	}
	if req.NextBillingDate == nil || req.NextBillingDate.IsZero() {
		return models.Subscription{}, apperr.Validation(msgNextDateRequired)
	}
	status := models.StatusActive
	if req.Status != "" {
		if !req.Status.Valid() {
			return models.Subscription{}, apperr.Validation(msgInvalidStatus)
		}
		status = req.Status
	}
	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return models.Subscription{}, err
	}

	sub := models.Subscription{
		UserID:          userID,
		Name:            name,
		Description:     req.Description,
		Category:        category,
		Amount:          req.Amount,
		Currency:        currency,
		BillingCycle:    req.BillingCycle,
		TrialEndDate:    req.TrialEndDate.TimePtr(),
		NextBillingDate: req.NextBillingDate.Time,
		LastBillingDate: req.LastBillingDate.TimePtr(),
		Status:          status,
		Notes:           req.Notes,
	}
	if req.IsTrial != nil {
		sub.IsTrial = *req.IsTrial
	}
	return sub, nil
}

func dateField(o models.Optional[models.Date]) models.Optional[time.Time] {
	if !o.Set {
		return models.Optional[time.Time]{}
	}
	if o.Null {
		return models.Null[time.Time]()
	}
	return models.Some(o.Value.Time)
}

// buildPatch проверяет только переданные поля. Null допустим лишь для
// полей, которые могут быть пустыми в хранилище.
func buildPatch(req models.UpdateSubscriptionRequest) (models.SubscriptionPatch, error) {
	patch := models.SubscriptionPatch{
		Description:     req.Description,
		Notes:           req.Notes,
		TrialEndDate:    dateField(req.TrialEndDate),
		LastBillingDate: dateField(req.LastBillingDate),
	}

	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if req.Name.Null || name == "" {
			return patch, apperr.Validation(msgNameRequired)
		}
		patch.Name = models.Some(name)
	}
	if req.Category.Set {
		category := strings.TrimSpace(req.Category.Value)
		if req.Category.Null || category == "" {
			return patch, apperr.Validation(msgCategoryRequired)
		}
		patch.Category = models.Some(category)
	}
	if req.Amount.Set {
		if req.Amount.Null {
			return patch, apperr.Validation(msgAmountPositive)
		}
		if err := validateAmount(req.Amount.Value); err != nil {
			return patch, err
		}
		patch.Amount = req.Amount
	}
	if req.Currency.Set {
		if req.Currency.Null || strings.TrimSpace(req.Currency.Value) == "" {
			return patch, apperr.Validation(msgInvalidCurrency)
		}
		currency, err := normalizeCurrency(req.Currency.Value)
		if err != nil {
			return patch, err
		}
		patch.Currency = models.Some(currency)
	}
	if req.BillingCycle.Set {
		if req.BillingCycle.Null || !req.BillingCycle.Value.Valid() {
			return patch, apperr.Validation(msgInvalidCycle)
		}
		patch.BillingCycle = req.BillingCycle
	}
	if req.IsTrial.Set {
		if req.IsTrial.Null {
			return patch, apperr.Validation(msgInvalidTrialFlag)
		}
		patch.IsTrial = req.IsTrial
	}
	if req.NextBillingDate.Set {
		if req.NextBillingDate.Null || req.NextBillingDate.Value.IsZero() {
			return patch, apperr.Validation(msgNextDateRequired)
		}
		patch.NextBillingDate = models.Some(req.NextBillingDate.Value.Time)
	}
	if req.Status.Set {
		if req.Status.Null || !req.Status.Value.Valid() {
			return patch, apperr.Validation(msgInvalidStatus)
		}
		patch.Status = req.Status
	}
	return patch, nil
}
