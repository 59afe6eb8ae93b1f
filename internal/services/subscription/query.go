package subscription

import (
	"context"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const (
	DefaultPage         = 1
	DefaultLimit        = 10
	DefaultUpcomingDays = 30
)

var sortFields = map[models.SortField]struct{}{
	models.SortByName:            {},
	models.SortByAmount:          {},
	models.SortByNextBillingDate: {},
	models.SortByCreatedAt:       {},
	models.SortByCategory:        {},
}

// parsePositive разбирает число из строки запроса. Нечисловое, бесконечное
// или неположительное значение заменяется на def, дробное округляется вниз.
func parsePositive(raw string, def int) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	f = math.Floor(f)
	if f < 1 {
		return def
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// ParseDays разбирает горизонт ближайших списаний, по умолчанию 30 дней.
func ParseDays(raw string) int {
	return parsePositive(raw, DefaultUpcomingDays)
}

// NormalizeQuery превращает сырые параметры строки запроса в проверенный запрос.
// Неизвестные поле и направление сортировки молча заменяются значениями
// по умолчанию, неизвестные статус и цикл списания дают ошибку валидации.
func NormalizeQuery(userID string, p models.ListParams, maxLimit int) (models.SubscriptionQuery, error) {
	if err := requireUserID(userID); err != nil {
		return models.SubscriptionQuery{}, err
	}

	q := models.SubscriptionQuery{
		SubscriptionFilter: models.SubscriptionFilter{
			UserID:   userID,
			Search:   strings.TrimSpace(p.Search),
			Category: strings.TrimSpace(p.Category),
		},
		Page:      parsePositive(p.Page, DefaultPage),
		Limit:     parsePositive(p.Limit, DefaultLimit),
		SortBy:    models.SortByNextBillingDate,
		SortOrder: models.SortAsc,
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if _, ok := sortFields[models.SortField(p.SortBy)]; ok {
		q.SortBy = models.SortField(p.SortBy)
	}
	if p.SortOrder == string(models.SortDesc) {
		q.SortOrder = models.SortDesc
	}

	if status := strings.TrimSpace(p.Status); status != "" {
		q.Status = models.SubscriptionStatus(status)
		if !q.Status.Valid() {
			return models.SubscriptionQuery{}, apperr.Validation(msgInvalidStatus)
		}
	}
	if cycle := strings.TrimSpace(p.BillingCycle); cycle != "" {
		q.BillingCycle = models.BillingCycle(cycle)
		if !q.BillingCycle.Valid() {
			return models.SubscriptionQuery{}, apperr.Validation(msgInvalidCycle)
		}
	}
	return q, nil
}

// List возвращает страницу подписок пользователя и конверт пагинации.
// Страница и общее число читаются параллельно.
func (s *Service) List(ctx context.Context, userID string, params models.ListParams) (*models.PaginationResult[models.Subscription], error) {
	q, err := NormalizeQuery(userID, params, s.maxLimit)
	if err != nil {
		return nil, err
	}

	var (
		items []models.Subscription
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListSubscriptions(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountSubscriptions(gctx, q.SubscriptionFilter)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.Subscription{}
	}
	return &models.PaginationResult[models.Subscription]{
		Data: items,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages(total, q.Limit),
		},
	}, nil
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
