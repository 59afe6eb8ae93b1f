package subscription

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Stats считает расходы по активным подпискам пользователя.
func (s *Service) Stats(ctx context.Context, userID string) (*models.SubscriptionStats, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	active, err := s.repo.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(active)
	return &stats, nil
}

// ComputeStats сворачивает подписки в статистику. Учитываются только ACTIVE.
// Суммы по циклам не приводятся друг к другу, категории идут в порядке
// первого появления. Счётчики отменённых и приостановленных всегда 0.
func ComputeStats(subs []models.Subscription) models.SubscriptionStats {
	stats := models.SubscriptionStats{
		TotalMonthly:      decimal.Zero,
		TotalYearly:       decimal.Zero,
		TotalWeekly:       decimal.Zero,
		NormalizedMonthly: decimal.Zero,
		ByCategory:        []models.CategoryTotal{},
	}
	index := make(map[string]int)

	for _, sub := range subs {
		if sub.Status != models.StatusActive {
			continue
		}
		stats.ActiveSubscriptions++

		switch sub.BillingCycle {
		case models.BillingCycleMonthly:
			stats.TotalMonthly = stats.TotalMonthly.Add(sub.Amount)
		case models.BillingCycleYearly:
			stats.TotalYearly = stats.TotalYearly.Add(sub.Amount)
		case models.BillingCycleWeekly:
			stats.TotalWeekly = stats.TotalWeekly.Add(sub.Amount)
		}
		stats.NormalizedMonthly = stats.NormalizedMonthly.Add(billing.MonthlyEquivalent(sub.Amount, sub.BillingCycle))

		i, ok := index[sub.Category]
		if !ok {
			i = len(stats.ByCategory)
			index[sub.Category] = i
			stats.ByCategory = append(stats.ByCategory, models.CategoryTotal{Category: sub.Category, Total: decimal.Zero})
		}
		stats.ByCategory[i].Total = stats.ByCategory[i].Total.Add(sub.Amount)
		stats.ByCategory[i].Count++
	}
	return stats
}
