package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/middleware"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/auth"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
)

type stubAuthService struct {
	loginResp  *auth.LoginResponse
	loginErr   error
	signupResp *auth.LoginResponse
	signupErr  error
	logoutResp *auth.LogoutResponse
	logoutErr  error
	logoutID   string
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Signup(_ context.Context, _ auth.SignupRequest) (*auth.LoginResponse, error) {
	return s.signupResp, s.signupErr
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) (*auth.LogoutResponse, error) {
	s.logoutID = accessID
	return s.logoutResp, s.logoutErr
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.LoginResponse{
		Message:       "You have successfully logged in.",
		AccessToken:   "jwt-token",
		RefreshToken:  "refresh-token",
		User:          auth.SessionUser{ID: uuid.New(), FirstName: "Ashley"},
		PendingCounts: connections.PendingCountsDTO{Received: 2, Sent: 1},
	}}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"email": "ashley@example.com", "password": "hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("X-BC-Token"); got != "jwt-token" {
		t.Fatalf("expected token header, got %q", got)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message != "You have successfully logged in." {
		t.Fatalf("unexpected message %q", envelope.Data.Message)
	}
	if envelope.Data.PendingCounts.Received != 2 {
		t.Fatalf("unexpected pending counts %+v", envelope.Data.PendingCounts)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect email or password. Please try again.")}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"email": "ashley@example.com", "password": "wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Incorrect email or password. Please try again." {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestAuthLoginRejectsMalformedBody(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email": "not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthSignupCreatesAndLogsIn(t *testing.T) {
	svc := &stubAuthService{signupResp: &auth.LoginResponse{
		Message:     "You have successfully logged in.",
		AccessToken: "fresh-token",
	}}
	handler := AuthSignup(svc, nil)

	body := []byte(`{
		"first_name": "Ashley",
		"last_name": "Chen",
		"email": "ashley@example.com",
		"password": "hunter2hunter2",
		"city": "Vancouver"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if got := rec.Header().Get("X-BC-Token"); got != "fresh-token" {
		t.Fatalf("expected token header, got %q", got)
	}
}

func TestAuthSignupPropagatesDuplicateEmail(t *testing.T) {
	svc := &stubAuthService{signupErr: pkgerrors.New(pkgerrors.CodeConflict, "An account already exists with this email address.")}
	handler := AuthSignup(svc, nil)

	body := []byte(`{
		"first_name": "Ashley",
		"last_name": "Chen",
		"email": "ashley@example.com",
		"password": "hunter2hunter2",
		"city": "Vancouver"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	svc := &stubAuthService{logoutResp: &auth.LogoutResponse{Message: "You have successfully logged out."}}
	handler := AuthLogout(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.logoutID != "session-1" {
		t.Fatalf("expected revoke of session-1, got %q", svc.logoutID)
	}
}

func TestAuthLogoutRequiresSession(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
