package http

import (
	"io"
	"net/http"
	"testing"

	"github.com/spec-kit/estimate-service/internal/auth"
	"github.com/spec-kit/estimate-service/internal/domain"
)

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginSucceedsWithSessionCookies(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "owner@floors.example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "owner@floors.example.com",
		"password": "hunter2-long-enough",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cookies := resp.Cookies()
	if cookieByName(cookies, auth.SessionCookieName) == nil {
		t.Error("expected a session cookie on login")
	}
	if cookieByName(cookies, auth.RefreshCookieName) == nil {
		t.Error("expected a refresh cookie on login")
	}

	var body struct {
		Success    bool   `json:"success"`
		RedirectTo string `json:"redirectTo"`
		User       struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	if !body.Success {
		t.Error("expected success=true")
	}
	if body.RedirectTo != "/dashboard" {
		t.Errorf("redirectTo = %q, want /dashboard", body.RedirectTo)
	}
	if body.User.Email != "owner@floors.example.com" {
		t.Errorf("user.email = %q", body.User.Email)
	}
}

func TestLoginWrongPasswordIs400WithoutCookies(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "owner@floors.example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "owner@floors.example.com",
		"password": "not-the-password",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if cookieByName(resp.Cookies(), auth.SessionCookieName) != nil {
		t.Error("no session cookie may be set on a failed login")
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error == "" {
		t.Error("expected an error message string")
	}
}

func TestLoginUnknownEmailIs400(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "nobody@floors.example.com",
		"password": "whatever-long-enough",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLoginSuspendedAccountIs400(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "owner@floors.example.com")

	env.contractors.mu.Lock()
	for id, row := range env.contractors.rows {
		row.Status = domain.ContractorStatusSuspended
		env.contractors.rows[id] = row
	}
	env.contractors.mu.Unlock()

	resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "owner@floors.example.com",
		"password": "hunter2-long-enough",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.register(t, "owner@floors.example.com")

	resp := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookies, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with cookies, got %d", resp.StatusCode)
	}
	var body struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.User.Email != "owner@floors.example.com" {
		t.Errorf("user.email = %q", body.User.Email)
	}
}

func TestLogoutDestroysRefreshSession(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.register(t, "owner@floors.example.com")

	refreshCookie := cookieByName(cookies, auth.RefreshCookieName)
	if refreshCookie == nil {
		t.Fatal("register did not set a refresh cookie")
	}
	if !env.refresh.has(refreshCookie.Value) {
		t.Fatal("refresh session missing from store after register")
	}

	resp := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()

	if env.refresh.has(refreshCookie.Value) {
		t.Error("refresh session still live after logout")
	}
	for _, name := range []string{auth.SessionCookieName, auth.RefreshCookieName} {
		cleared := cookieByName(resp.Cookies(), name)
		if cleared == nil {
			t.Errorf("expected %s to be rewritten at logout", name)
			continue
		}
		if cleared.Value != "" {
			t.Errorf("%s not cleared: %q", name, cleared.Value)
		}
	}
}

func TestRegisterDuplicateEmailIs400(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "owner@floors.example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"companyName": "Another Floors",
		"contactName": "Owner",
		"email":       "owner@floors.example.com",
		"password":    "hunter2-long-enough",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
}
