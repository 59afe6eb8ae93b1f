package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

func sub(name, category, amount string, cycle models.BillingCycle, status models.SubscriptionStatus) models.Subscription {
	return models.Subscription{
		Name:         name,
		Category:     category,
		Amount:       dec(amount),
		BillingCycle: cycle,
		Status:       status,
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		stats := ComputeStats(nil)
		assert.True(t, stats.TotalMonthly.IsZero())
		assert.True(t, stats.TotalYearly.IsZero())
		assert.True(t, stats.TotalWeekly.IsZero())
		assert.True(t, stats.NormalizedMonthly.IsZero())
		assert.NotNil(t, stats.ByCategory)
		assert.Empty(t, stats.ByCategory)
		assert.Zero(t, stats.ActiveSubscriptions)
	})

	t.Run("single monthly", func(t *testing.T) {
		stats := ComputeStats([]models.Subscription{
			sub("Netflix", "Streaming", "15.99", models.BillingCycleMonthly, models.StatusActive),
		})
		assert.Equal(t, "15.99", stats.TotalMonthly.String())
		assert.True(t, stats.TotalYearly.IsZero())
		require.Len(t, stats.ByCategory, 1)
		assert.Equal(t, "Streaming", stats.ByCategory[0].Category)
		assert.Equal(t, "15.99", stats.ByCategory[0].Total.String())
		assert.Equal(t, 1, stats.ByCategory[0].Count)
		assert.Equal(t, 1, stats.ActiveSubscriptions)
	})

	t.Run("mixed cycles and categories", func(t *testing.T) {
		stats := ComputeStats([]models.Subscription{
			sub("Spotify", "Music", "9.99", models.BillingCycleMonthly, models.StatusActive),
			sub("Netflix", "Streaming", "15.99", models.BillingCycleMonthly, models.StatusActive),
			sub("iCloud", "Cloud Services", "120", models.BillingCycleYearly, models.StatusActive),
			sub("Apple Music", "Music", "2.5", models.BillingCycleWeekly, models.StatusActive),
			sub("Old gym", "Health", "30", models.BillingCycleMonthly, models.StatusCancelled),
			sub("Hulu", "Streaming", "7", models.BillingCycleMonthly, models.StatusPaused),
		})

		assert.Equal(t, "25.98", stats.TotalMonthly.String())
		assert.Equal(t, "120", stats.TotalYearly.String())
		assert.Equal(t, "2.5", stats.TotalWeekly.String())
		// 25.98 + 120/12 + 2.5*4.33
		assert.Equal(t, "46.81", stats.NormalizedMonthly.StringFixed(2))
		assert.Equal(t, 4, stats.ActiveSubscriptions)
		assert.Zero(t, stats.CancelledSubscriptions)
		assert.Zero(t, stats.PausedSubscriptions)

		require.Len(t, stats.ByCategory, 3)
		assert.Equal(t, "Music", stats.ByCategory[0].Category)
		assert.Equal(t, "12.49", stats.ByCategory[0].Total.String())
		assert.Equal(t, 2, stats.ByCategory[0].Count)
		assert.Equal(t, "Streaming", stats.ByCategory[1].Category)
		assert.Equal(t, "Cloud Services", stats.ByCategory[2].Category)
	})

	t.Run("category totals add up to raw totals", func(t *testing.T) {
		stats := ComputeStats([]models.Subscription{
			sub("a", "X", "1.10", models.BillingCycleMonthly, models.StatusActive),
			sub("b", "Y", "2.20", models.BillingCycleYearly, models.StatusActive),
			sub("c", "X", "3.30", models.BillingCycleWeekly, models.StatusActive),
		})
		sum := dec("0")
		count := 0
		for _, c := range stats.ByCategory {
			sum = sum.Add(c.Total)
			count += c.Count
		}
		assert.True(t, sum.Equal(stats.TotalMonthly.Add(stats.TotalYearly).Add(stats.TotalWeekly)))
		assert.Equal(t, stats.ActiveSubscriptions, count)
	})
}

func TestService_Stats(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListActiveSubscriptions", mock.Anything, userID).Return([]models.Subscription{
		sub("Netflix", "Streaming", "15.99", models.BillingCycleMonthly, models.StatusActive),
	}, nil).Once()

	stats, err := newTestService(repo).Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "15.99", stats.TotalMonthly.String())
	repo.AssertExpectations(t)

	_, err = newTestService(repo).Stats(context.Background(), "")
	assert.EqualError(t, err, "user id is required")

	failing := new(RepoMock)
	failing.On("ListActiveSubscriptions", mock.Anything, userID).Return(nil, errors.New("timeout"))
	_, err = newTestService(failing).Stats(context.Background(), userID)
	assert.Error(t, err)
}

func TestService_Upcoming(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name      string
		days      int
		wantUntil time.Time
		found     []models.Subscription
	}{
		{name: "default horizon", days: 0, wantUntil: now.AddDate(0, 0, 30)},
		{name: "negative horizon", days: -5, wantUntil: now.AddDate(0, 0, 30)},
		{
			name:      "explicit horizon",
			days:      7,
			wantUntil: time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC),
			found:     []models.Subscription{{Name: "Overdue"}, {Name: "Soon"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ListDueSubscriptions", mock.Anything, userID, tt.wantUntil).Return(tt.found, nil).Once()

			got, err := newTestService(repo).WithClock(clock).Upcoming(context.Background(), userID, tt.days)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, len(tt.found))
			repo.AssertExpectations(t)
		})
	}
}
