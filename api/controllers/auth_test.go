package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziksirlabs/ziksir-backend/internal/auth"
	pkgerrors "github.com/ziksirlabs/ziksir-backend/pkg/errors"
)

type stubAuthService struct {
	loginResp   *auth.LoginResponse
	loginErr    error
	refreshResp *auth.RefreshResponse
	loggedOut   []string
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, _ auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return s.refreshResp, nil
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func TestAuthLoginReturnsTokens(t *testing.T) {
	svc := &stubAuthService{
		loginResp: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"},
	}
	handler := AuthLogin(svc, nil)

	body := `{"email":"user@lab.edu","password":"hunter2aa"}`
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "access", envelope.Data.AccessToken)
	assert.Equal(t, "refresh", envelope.Data.RefreshToken)
}

func TestAuthLoginRejectsMalformedBody(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthLoginMapsServiceError(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"user@lab.edu","password":"wrongpassword"}`
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(pkgerrors.CodeUnauthorized), envelope.Error.Code)
}

func TestAuthLogoutRequiresBearerToken(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, testJWTConfig(), nil)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
