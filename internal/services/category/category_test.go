package category

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/cache"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *RepoMock) CreateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func strPtr(s string) *string { return &s }

var seeded = []models.Category{
	{ID: "1", Name: "AI Tools"},
	{ID: "2", Name: "Music", Color: strPtr("#FFEAA7")},
}

func TestService_List_UsesCache(t *testing.T) {
	c, mr := setupCache(t)
	repo := new(RepoMock)
	repo.On("ListCategories", mock.Anything).Return(seeded, nil).Once()

	svc := New(repo, c, time.Minute, discardLogger())

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seeded, first)
	assert.True(t, mr.Exists(CacheKey))

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AI Tools", "Music"}, []string{second[0].Name, second[1].Name})
	require.NotNil(t, second[1].Color)
	assert.Equal(t, "#FFEAA7", *second[1].Color)

	repo.AssertNumberOfCalls(t, "ListCategories", 1)
}

func TestService_List_CacheExpires(t *testing.T) {
	c, mr := setupCache(t)
	repo := new(RepoMock)
	repo.On("ListCategories", mock.Anything).Return(seeded, nil).Twice()

	svc := New(repo, c, time.Minute, discardLogger())
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_List_BrokenCacheFallsBack(t *testing.T) {
	c, mr := setupCache(t)
	require.NoError(t, mr.Set(CacheKey, "not json"))

	repo := new(RepoMock)
	repo.On("ListCategories", mock.Anything).Return(seeded, nil).Once()

	got, err := New(repo, c, time.Minute, discardLogger()).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestService_List_WithoutCache(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListCategories", mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := New(repo, nil, time.Minute, discardLogger()).List(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		req      models.CreateCategoryRequest
		setup    func(m *RepoMock)
		wantKind apperr.Kind
		wantErr  string
	}{
		{
			name: "admin creates trimmed category",
			role: models.RoleAdmin,
			req:  models.CreateCategoryRequest{Name: "  News ", Color: strPtr("#000000")},
			setup: func(m *RepoMock) {
				m.On("CreateCategory", mock.Anything, models.Category{Name: "News", Color: strPtr("#000000")}).
					Return(&models.Category{ID: "7", Name: "News", Color: strPtr("#000000")}, nil).Once()
			},
		},
		{
			name:     "regular user is forbidden",
			role:     models.RoleUser,
			req:      models.CreateCategoryRequest{Name: "News"},
			wantKind: apperr.KindForbidden,
			wantErr:  "admin role required",
		},
		{
			name:     "blank name",
			role:     models.RoleAdmin,
			req:      models.CreateCategoryRequest{Name: "   "},
			wantKind: apperr.KindValidation,
			wantErr:  "category name is required",
		},
		{
			name: "duplicate name",
			role: models.RoleAdmin,
			req:  models.CreateCategoryRequest{Name: "Music"},
			setup: func(m *RepoMock) {
				m.On("CreateCategory", mock.Anything, mock.Anything).Return(nil, storage.ErrCategoryExists).Once()
			},
			wantKind: apperr.KindValidation,
			wantErr:  "category already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := setupCache(t)
			require.NoError(t, c.Set(context.Background(), CacheKey, seeded, time.Minute))

			repo := new(RepoMock)
			if tt.setup != nil {
				tt.setup(repo)
			}

			created, err := New(repo, c, time.Minute, discardLogger()).Create(context.Background(), tt.role, tt.req)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.EqualError(t, err, tt.wantErr)
				assert.True(t, mr.Exists(CacheKey), "cache stays on failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "News", created.Name)
			assert.Nil(t, created.Icon)
			assert.False(t, mr.Exists(CacheKey), "cache is invalidated")
			repo.AssertExpectations(t)
		})
	}
}
