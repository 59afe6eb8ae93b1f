package categorylist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCategoryListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	color := "#FF6B6B"

	tests := []struct {
		name           string
		result         []models.Category
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "list without auth",
			result:         []models.Category{{ID: "1", Name: "Streaming", Color: &color}},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Streaming","color":"#FF6B6B","icon":null`,
		},
		{
			name:           "store failure",
			err:            errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.err != nil {
				mockService.On("List", mock.Anything).Return(nil, tt.err).Once()
			} else {
				mockService.On("List", mock.Anything).Return(tt.result, nil).Once()
			}

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
