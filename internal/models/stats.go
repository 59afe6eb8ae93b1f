package models

import "github.com/shopspring/decimal"

// CategoryTotal — агрегат по одной категории.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// SubscriptionStats — сводка расходов по активным подпискам пользователя.
//
// TotalMonthly, TotalYearly и TotalWeekly — суммы без приведения, каждая только
// по своему циклу списания. NormalizedMonthly приводит все циклы к месяцу.
type SubscriptionStats struct {
	TotalMonthly           decimal.Decimal `json:"totalMonthly"`
	TotalYearly            decimal.Decimal `json:"totalYearly"`
	TotalWeekly            decimal.Decimal `json:"totalWeekly"`
	NormalizedMonthly      decimal.Decimal `json:"normalizedMonthly"`
	ByCategory             []CategoryTotal `json:"byCategory"`
	ActiveSubscriptions    int             `json:"activeSubscriptions"`
	CancelledSubscriptions int             `json:"cancelledSubscriptions"`
	PausedSubscriptions    int             `json:"pausedSubscriptions"`
}
