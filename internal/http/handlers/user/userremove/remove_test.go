package userremove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperr"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestUserRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	const id = "0b6f8a52-3c44-4a8e-9d1e-5f2a7c9e1b10"

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "removed", expectedStatus: http.StatusOK, expectedBody: `{"status":"OK"}`},
		{name: "not found", err: apperr.NotFound("User", id), expectedStatus: http.StatusNotFound, expectedBody: `not found`},
		{name: "store failure", err: errors.New("db down"), expectedStatus: http.StatusInternalServerError, expectedBody: `"error":"internal error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("Remove", mock.Anything, id).Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodDelete, "/users/"+id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
