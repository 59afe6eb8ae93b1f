package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ListDueReminders возвращает активные подписки всех пользователей со
// списанием в интервале [from, until] вместе с e-mail владельца.
// Подписки, о текущей дате списания которых уже напомнили, пропускаются.
func (s *Storage) ListDueReminders(ctx context.Context, from, until time.Time) ([]models.BillingReminder, error) {
	const op = "storage.ListDueReminders"

	query := `SELECT s.id, s.user_id, u.email, s.name, s.amount, s.currency, s.next_billing_date
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.status = $1 AND s.next_billing_date >= $2 AND s.next_billing_date <= $3
				AND s.reminded_for IS DISTINCT FROM s.next_billing_date
			  ORDER BY s.next_billing_date ASC, s.id ASC`
	rows, err := s.DB.QueryContext(ctx, query, string(models.StatusActive), from, until)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.BillingReminder, 0)
	for rows.Next() {
		var r models.BillingReminder
		if err := rows.Scan(&r.SubscriptionID, &r.UserID, &r.Email, &r.Name, &r.Amount,
			&r.Currency, &r.NextBillingDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkReminded запоминает дату списания, о которой отправлено напоминание.
// Если дата списания уже сдвинулась, запись не меняется.
func (s *Storage) MarkReminded(ctx context.Context, subscriptionID string, billingDate time.Time) error {
	const op = "storage.MarkReminded"

	_, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET reminded_for = $2 WHERE id = $1 AND next_billing_date = $2`,
		subscriptionID, billingDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
