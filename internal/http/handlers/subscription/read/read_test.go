package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userID, id string) (*models.Subscription, error) {
	args := m.Called(ctx, userID, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		url            string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное чтение подписки",
			url:    "/subscriptions/123",
			userID: "owner",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "owner", "123").Return(&models.Subscription{ID: "123", Name: "Netflix"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Netflix"`,
		},
		{
			name:   "чужая или отсутствующая подписка",
			url:    "/subscriptions/777",
			userID: "stranger",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "stranger", "777").Return(nil, apperr.NotFound("Subscription", "777"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"Subscription with id 777 not found"}`,
		},
		{
			name:           "нет пользователя",
			url:            "/subscriptions/1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:   "ошибка сервиса чтения",
			url:    "/subscriptions/500",
			userID: "owner",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "owner", "500").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/subscriptions/"))
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userID != "" {
				ctx = middlewarectx.WithUser(ctx, tt.userID, models.RoleUser)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
