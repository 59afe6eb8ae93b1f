package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

// TestDataFactory создаёт тестовые записи напрямую через репозиторий.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт пользователя с ролью USER и возвращает его id.
func (f *TestDataFactory) CreateUser(t *testing.T, email string) string {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		ID:    uuid.NewString(),
		Email: email,
		Role:  models.RoleUser,
	})
	require.NoError(t, err)
	return u.ID
}

// CreateSubscription создаёт подписку; mutate может поменять значения по умолчанию.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID string, mutate func(*models.Subscription)) models.Subscription {
	t.Helper()
	sub := models.Subscription{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            "Netflix",
		Category:        "Streaming",
		Amount:          decimal.RequireFromString("15.99"),
		Currency:        models.DefaultCurrency,
		BillingCycle:    models.BillingCycleMonthly,
		NextBillingDate: time.Now().UTC().AddDate(0, 0, 5).Truncate(time.Second),
		Status:          models.StatusActive,
	}
	if mutate != nil {
		mutate(&sub)
	}
	created, err := f.storage.CreateSubscription(context.Background(), sub)
	require.NoError(t, err)
	return *created
}

func strPtr(s string) *string {
	return &s
}
