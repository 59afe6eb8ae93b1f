package subscription

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

func TestParsePositive(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 7},
		{raw: "abc", want: 7},
		{raw: "0", want: 7},
		{raw: "-3", want: 7},
		{raw: "0.5", want: 7},
		{raw: "NaN", want: 7},
		{raw: "Inf", want: 7},
		{raw: "2.9", want: 2},
		{raw: " 15 ", want: 15},
		{raw: "1e3", want: 1000},
		{raw: "1e20", want: math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePositive(tt.raw, 7))
		})
	}
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, 30, ParseDays(""))
	assert.Equal(t, 30, ParseDays("-1"))
	assert.Equal(t, 7, ParseDays("7"))
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		params   models.ListParams
		maxLimit int
		want     models.SubscriptionQuery
		wantErr  string
	}{
		{
			name:     "defaults",
			maxLimit: 100,
			want: models.SubscriptionQuery{
				SubscriptionFilter: models.SubscriptionFilter{UserID: userID},
				SortBy:             models.SortByNextBillingDate,
				SortOrder:          models.SortAsc,
				Page:               1,
				Limit:              10,
			},
		},
		{
			name: "all filters",
			params: models.ListParams{
				Page:         "3",
				Limit:        "25",
				Search:       " net ",
				Status:       "PAUSED",
				Category:     "Streaming",
				BillingCycle: "YEARLY",
				SortBy:       "amount",
				SortOrder:    "desc",
			},
			maxLimit: 100,
			want: models.SubscriptionQuery{
				SubscriptionFilter: models.SubscriptionFilter{
					UserID:       userID,
					Search:       "net",
					Status:       models.StatusPaused,
					Category:     "Streaming",
					BillingCycle: models.BillingCycleYearly,
				},
				SortBy:    models.SortByAmount,
				SortOrder: models.SortDesc,
				Page:      3,
				Limit:     25,
			},
		},
		{
			name:     "unknown sort falls back silently",
			params:   models.ListParams{SortBy: "password", SortOrder: "DESC"},
			maxLimit: 100,
			want: models.SubscriptionQuery{
				SubscriptionFilter: models.SubscriptionFilter{UserID: userID},
				SortBy:             models.SortByNextBillingDate,
				SortOrder:          models.SortAsc,
				Page:               1,
				Limit:              10,
			},
		},
		{
			name:     "limit is clamped",
			params:   models.ListParams{Limit: "5000"},
			maxLimit: 100,
			want: models.SubscriptionQuery{
				SubscriptionFilter: models.SubscriptionFilter{UserID: userID},
				SortBy:             models.SortByNextBillingDate,
				SortOrder:          models.SortAsc,
				Page:               1,
				Limit:              100,
			},
		},
		{
			name:     "no clamp without max",
			params:   models.ListParams{Limit: "5000"},
			maxLimit: 0,
			want: models.SubscriptionQuery{
				SubscriptionFilter: models.SubscriptionFilter{UserID: userID},
				SortBy:             models.SortByNextBillingDate,
				SortOrder:          models.SortAsc,
				Page:               1,
				Limit:              5000,
			},
		},
		{name: "invalid status", params: models.ListParams{Status: "active"}, wantErr: "invalid subscription status"},
		{name: "invalid cycle", params: models.ListParams{BillingCycle: "DAILY"}, wantErr: "invalid billing cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeQuery(userID, tt.params, tt.maxLimit)
			if tt.wantErr != "" {
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeQuery_RequiresUser(t *testing.T) {
	_, err := NormalizeQuery("", models.ListParams{}, 100)
	assert.EqualError(t, err, "user id is required")
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name      string
		params    models.ListParams
		items     []models.Subscription
		total     int
		wantPages int
		wantLimit int
		wantPage  int
	}{
		{
			name:      "partial last page",
			params:    models.ListParams{Page: "1", Limit: "2"},
			items:     []models.Subscription{{Name: "a"}, {Name: "b"}},
			total:     5,
			wantPages: 3,
			wantLimit: 2,
			wantPage:  1,
		},
		{
			name:      "empty result",
			items:     nil,
			total:     0,
			wantPages: 0,
			wantLimit: 10,
			wantPage:  1,
		},
		{
			name:      "exact multiple",
			params:    models.ListParams{Limit: "5", Page: "2"},
			items:     []models.Subscription{{Name: "f"}},
			total:     10,
			wantPages: 2,
			wantLimit: 5,
			wantPage:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ListSubscriptions", mock.Anything, mock.MatchedBy(func(q models.SubscriptionQuery) bool {
				return q.UserID == userID && q.Limit == tt.wantLimit && q.Page == tt.wantPage
			})).Return(tt.items, nil).Once()
			repo.On("CountSubscriptions", mock.Anything, models.SubscriptionFilter{UserID: userID}).Return(tt.total, nil).Once()

			result, err := newTestService(repo).List(context.Background(), userID, tt.params)
			require.NoError(t, err)

			assert.NotNil(t, result.Data)
			assert.Len(t, result.Data, len(tt.items))
			assert.Equal(t, models.Pagination{
				Page:       tt.wantPage,
				Limit:      tt.wantLimit,
				Total:      tt.total,
				TotalPages: tt.wantPages,
			}, result.Pagination)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_List_StoreError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListSubscriptions", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	repo.On("CountSubscriptions", mock.Anything, mock.Anything).Return(0, nil).Maybe()

	_, err := newTestService(repo).List(context.Background(), userID, models.ListParams{})
	assert.EqualError(t, err, "db down")
}

func TestService_List_InvalidFilterSkipsStore(t *testing.T) {
	repo := new(RepoMock)
	_, err := newTestService(repo).List(context.Background(), userID, models.ListParams{Status: "nope"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	repo.AssertNotCalled(t, "ListSubscriptions", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CountSubscriptions", mock.Anything, mock.Anything)
}
