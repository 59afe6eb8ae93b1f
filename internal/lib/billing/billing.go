// Package billing содержит расчёты, связанные с циклами списания:
// приведение суммы к месячному эквиваленту и горизонт ближайших списаний.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const monthlyPrecision = 2

var (
	weeksPerMonth = decimal.RequireFromString("4.33")
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyEquivalent приводит сумму к месячной: WEEKLY×4.33, YEARLY/12.
// Результат округляется до копеек.
func MonthlyEquivalent(amount decimal.Decimal, cycle models.BillingCycle) decimal.Decimal {
	switch cycle {
	case models.BillingCycleWeekly:
		return amount.Mul(weeksPerMonth).Round(monthlyPrecision)
	case models.BillingCycleYearly:
		return amount.Div(monthsPerYear).Round(monthlyPrecision)
	default:
		return amount
	}
}

// Horizon возвращает момент now + days календарных дней.
func Horizon(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, days)
}

// StartOfDay обрезает время до полуночи в часовом поясе t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
