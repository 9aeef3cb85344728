package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/config"
	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
)

type MockAuthService struct {
	MockMemberToken func(nickname domain.Nickname) (string, domain.Member, error)
	MockAdminLogin  func(password string) (string, domain.Member, error)
}

func (m *MockAuthService) MemberToken(nickname domain.Nickname) (string, domain.Member, error) {
	if m.MockMemberToken != nil {
		return m.MockMemberToken(nickname)
	}
	return "token", domain.Member{Id: "m1", Nickname: nickname}, nil
}

func (m *MockAuthService) AdminLogin(password string) (string, domain.Member, error) {
	if m.MockAdminLogin != nil {
		return m.MockAdminLogin(password)
	}
	return "admin-token", domain.Member{Id: "admin", Admin: true}, nil
}

func setupAuthTestHandler(authService service.AuthService) *mux.Router {
	cfg := &config.Config{Public: config.Public{JwtTTL: time.Hour}}
	h := &Handler{auth: authService, cfg: cfg}
	router := mux.NewRouter()
	router.HandleFunc("/v1/auth/member", h.MemberToken).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/login", h.AdminLogin).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/logout", h.Logout).Methods(http.MethodPost)
	return router
}

func findCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMemberTokenHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		router := setupAuthTestHandler(&MockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/member", bytes.NewBuffer([]byte(`{"nickname": "alice"}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "token", resp.Token)
		assert.Equal(t, domain.Nickname("alice"), resp.Member.Nickname)

		cookie := findCookie(t, rr, "accessToken")
		require.NotNil(t, cookie)
		assert.Equal(t, "token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	})

	t.Run("missing nickname", func(t *testing.T) {
		router := setupAuthTestHandler(&MockAuthService{})
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/member", bytes.NewBuffer([]byte(`{}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("validation error from service", func(t *testing.T) {
		mockService := &MockAuthService{
			MockMemberToken: func(nickname domain.Nickname) (string, domain.Member, error) {
				return "", domain.Member{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid nickname", StatusCode: http.StatusBadRequest}
			},
		}
		router := setupAuthTestHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/member", bytes.NewBuffer([]byte(`{"nickname": "x"}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAdminLoginHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		router := setupAuthTestHandler(&MockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBuffer([]byte(`{"password": "hunter2"}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Member.Admin)
		require.NotNil(t, findCookie(t, rr, "accessToken"))
	})

	t.Run("wrong password", func(t *testing.T) {
		mockService := &MockAuthService{
			MockAdminLogin: func(password string) (string, domain.Member, error) {
				return "", domain.Member{}, &internal_errors.ErrorWithStatusCode{Message: "Wrong password", StatusCode: http.StatusUnauthorized}
			},
		}
		router := setupAuthTestHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBuffer([]byte(`{"password": "nope"}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	router := setupAuthTestHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	cookie := findCookie(t, rr, "accessToken")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}
