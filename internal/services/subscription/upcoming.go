package subscription

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Upcoming возвращает активные подписки со списанием не позже чем через days
// дней, включая просроченные, по возрастанию даты. days <= 0 заменяется на 30.
func (s *Service) Upcoming(ctx context.Context, userID string, days int) ([]models.Subscription, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	until := billing.Horizon(s.now(), days)

	subs, err := s.repo.ListDueSubscriptions(ctx, userID, until)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	s.log.Debug("selected upcoming subscriptions", slog.Int("days", days), slog.Int("count", len(subs)))
	return subs, nil
}
