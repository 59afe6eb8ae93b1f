package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

const subscriptionColumns = `id, user_id, name, description, category, amount, currency,
	billing_cycle, is_trial, trial_end_date, next_billing_date, last_billing_date,
	status, notes, created_at, updated_at`

// sortColumns — белый список колонок сортировки. Значение из запроса
// никогда не попадает в SQL напрямую.
var sortColumns = map[models.SortField]string{
	models.SortByName:            "name",
	models.SortByAmount:          "amount",
	models.SortByNextBillingDate: "next_billing_date",
	models.SortByCreatedAt:       "created_at",
	models.SortByCategory:        "category",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanSubscription(row rowScanner) (models.Subscription, error) {
	var sub models.Subscription
	var description, notes sql.NullString
	var trialEndDate, lastBilledAt sql.NullTime
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &description, &sub.Category, &sub.Amount,
		&sub.Currency, &sub.BillingCycle, &sub.IsTrial, &trialEndDate, &sub.NextBillingDate,
		&lastBilledAt, &sub.Status, &notes, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return models.Subscription{}, err
	}
	sub.Description = nullString(description)
	sub.Notes = nullString(notes)
	if trialEndDate.Valid {
		sub.TrialEndDate = &trialEndDate.Time
	}
	if lastBilledAt.Valid {
		sub.LastBillingDate = &lastBilledAt.Time
	}
	return sub, nil
}

func scanSubscriptions(rows *sql.Rows) ([]models.Subscription, error) {
	result := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// buildSubscriptionFilter собирает WHERE-условие выборки. Владелец
// подставляется всегда первым параметром.
func buildSubscriptionFilter(f models.SubscriptionFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{f.UserID}

	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.BillingCycle != "" {
		args = append(args, string(f.BillingCycle))
		conds = append(conds, fmt.Sprintf("billing_cycle = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func buildOrderBy(field models.SortField, order models.SortOrder) string {
	column, ok := sortColumns[field]
	if !ok {
		column = sortColumns[models.SortByNextBillingDate]
	}
	direction := "ASC"
	if order == models.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

// CreateSubscription сохраняет подписку и возвращает запись с временными метками базы.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"

	query := `INSERT INTO subscriptions (id, user_id, name, description, category, amount, currency,
				  billing_cycle, is_trial, trial_end_date, next_billing_date, last_billing_date, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.Name, sub.Description, sub.Category, sub.Amount, sub.Currency,
		string(sub.BillingCycle), sub.IsTrial, sub.TrialEndDate, sub.NextBillingDate, sub.LastBillingDate,
		string(sub.Status), sub.Notes)

	created, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// GetSubscription возвращает подписку по id в пределах владельца.
// Чужая подписка неотличима от отсутствующей.
func (s *Storage) GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND user_id = $2`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListSubscriptions возвращает страницу подписок по фильтру, сортировке и смещению.
func (s *Storage) ListSubscriptions(ctx context.Context, q models.SubscriptionQuery) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"

	where, args := buildSubscriptionFilter(q.SubscriptionFilter)
	args = append(args, q.Limit, q.Offset())
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		subscriptionColumns, where, buildOrderBy(q.SortBy, q.SortOrder), len(args)-1, len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result, err := scanSubscriptions(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountSubscriptions считает подписки под тем же фильтром, что и ListSubscriptions.
func (s *Storage) CountSubscriptions(ctx context.Context, f models.SubscriptionFilter) (int, error) {
	const op = "storage.CountSubscriptions"

	where, args := buildSubscriptionFilter(f)
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// UpdateSubscription применяет патч к подписке владельца. Обновляются только
// переданные поля, Null записывается как NULL.
func (s *Storage) UpdateSubscription(ctx context.Context, userID, id string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"

	if patch.Empty() {
		return s.GetSubscription(ctx, userID, id)
	}

	setParts := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name.Set {
		set("name", patch.Name.Value)
	}
	if patch.Description.Set {
		set("description", patch.Description.Ptr())
	}
	if patch.Category.Set {
		set("category", patch.Category.Value)
	}
	if patch.Amount.Set {
		set("amount", patch.Amount.Value)
	}
	if patch.Currency.Set {
		set("currency", patch.Currency.Value)
	}
	if patch.BillingCycle.Set {
		set("billing_cycle", string(patch.BillingCycle.Value))
	}
	if patch.IsTrial.Set {
		set("is_trial", patch.IsTrial.Value)
	}
	if patch.TrialEndDate.Set {
		set("trial_end_date", patch.TrialEndDate.Ptr())
	}
	if patch.NextBillingDate.Set {
		set("next_billing_date", patch.NextBillingDate.Value)
	}
	if patch.LastBillingDate.Set {
		set("last_billing_date", patch.LastBillingDate.Ptr())
	}
	if patch.Status.Set {
		set("status", string(patch.Status.Value))
	}
	if patch.Notes.Set {
		set("notes", patch.Notes.Ptr())
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE subscriptions
			  SET %s, updated_at = NOW()
			  WHERE id = $%d AND user_id = $%d
			  RETURNING %s`,
		strings.Join(setParts, ", "), len(args)-1, len(args), subscriptionColumns)

	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// DeleteSubscription удаляет подписку владельца.
func (s *Storage) DeleteSubscription(ctx context.Context, userID, id string) error {
	const op = "storage.DeleteSubscription"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// ListActiveSubscriptions возвращает все активные подписки пользователя
// в порядке создания.
func (s *Storage) ListActiveSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.ListActiveSubscriptions"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1 AND status = $2
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID, string(models.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result, err := scanSubscriptions(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListDueSubscriptions возвращает активные подписки пользователя со списанием
// не позже until, включая просроченные, по возрастанию даты списания.
func (s *Storage) ListDueSubscriptions(ctx context.Context, userID string, until time.Time) ([]models.Subscription, error) {
	const op = "storage.ListDueSubscriptions"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1 AND status = $2 AND next_billing_date <= $3
			  ORDER BY next_billing_date ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query, userID, string(models.StatusActive), until)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result, err := scanSubscriptions(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
