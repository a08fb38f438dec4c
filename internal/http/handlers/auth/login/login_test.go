package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	ana := &models.User{ID: 1, Username: "ana", Email: "a@x.com", FullName: "Ana", IsProvider: true}

	tests := []struct {
		name        string
		body        string
		callService bool
		token       string
		user        *models.User
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "valid login",
			body:        `{"username":"ana","password":"pw123"}`,
			callService: true,
			token:       "tok",
			user:        ana,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "invalid json body",
			body:        "not a json",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Dados inválidos!",
		},
		{
			name:        "missing password",
			body:        `{"username":"ana"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Password is a required field",
		},
		{
			name:        "wrong password",
			body:        `{"username":"ana","password":"pw123"}`,
			callService: true,
			serviceErr:  fmt.Errorf("auth.Login: %w", auth.ErrInvalidCredentials),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: MsgInvalidCredentials,
		},
		{
			name:        "internal error",
			body:        `{"username":"ana","password":"pw123"}`,
			callService: true,
			serviceErr:  errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Erro interno do servidor!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tt.callService {
				service.On("Login", mock.Anything, "ana", "pw123").Return(tt.token, tt.user, tt.serviceErr).Once()
			}
			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var got Response
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "tok", got.Token)
				assert.Equal(t, UserInfo{ID: 1, Username: "ana", Email: "a@x.com", FullName: "Ana", IsProvider: true}, got.User)
			} else {
				var got map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantMessage, got["message"])
				assert.Empty(t, got["token"])
			}
			service.AssertExpectations(t)
		})
	}
}
