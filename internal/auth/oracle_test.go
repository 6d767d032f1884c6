package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

// memoryRefreshStore is an in-memory RefreshStore for tests.
type memoryRefreshStore struct {
	sessions map[string]RefreshSession
	failWith error
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{sessions: make(map[string]RefreshSession)}
}

func (s *memoryRefreshStore) Save(_ context.Context, id string, sess RefreshSession) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.sessions[id] = sess
	return nil
}

func (s *memoryRefreshStore) Get(_ context.Context, id string) (RefreshSession, error) {
	if s.failWith != nil {
		return RefreshSession{}, s.failWith
	}
	sess, ok := s.sessions[id]
	if !ok {
		return RefreshSession{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *memoryRefreshStore) Delete(_ context.Context, id string) error {
	if s.failWith != nil {
		return s.failWith
	}
	delete(s.sessions, id)
	return nil
}

// resolveOnce runs a single request through the oracle and reports the
// resolution outcome plus the response (for Set-Cookie inspection).
func resolveOnce(t *testing.T, oracle *CookieOracle, cookies []*http.Cookie) (*Identity, bool, *http.Response) {
	t.Helper()

	var (
		identity *Identity
		resolved bool
	)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		identity, resolved = oracle.Resolve(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return identity, resolved, resp
}

func TestOracleResolvesValidSessionCookie(t *testing.T) {
	sm := NewSessionManager("oracle-secret", time.Hour)
	oracle := NewCookieOracle(sm, newMemoryRefreshStore())

	tokenStr, _, err := sm.Issue("contractor-1", "owner@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	identity, resolved, _ := resolveOnce(t, oracle, []*http.Cookie{
		{Name: SessionCookieName, Value: tokenStr},
	})
	if !resolved {
		t.Fatal("expected resolution from a valid session cookie")
	}
	if identity.ContractorID != "contractor-1" || identity.Email != "owner@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestOracleUnresolvedWithoutCookies(t *testing.T) {
	sm := NewSessionManager("oracle-secret", time.Hour)
	oracle := NewCookieOracle(sm, newMemoryRefreshStore())

	_, resolved, _ := resolveOnce(t, oracle, nil)
	if resolved {
		t.Fatal("expected no resolution without cookies")
	}
}

func TestOracleRefreshFallbackMintsSessionCookie(t *testing.T) {
	sm := NewSessionManager("oracle-secret", time.Hour)
	store := newMemoryRefreshStore()
	store.sessions["refresh-1"] = RefreshSession{ContractorID: "contractor-1", Email: "owner@example.com"}
	oracle := NewCookieOracle(sm, store)

	identity, resolved, resp := resolveOnce(t, oracle, []*http.Cookie{
		{Name: SessionCookieName, Value: "expired-or-garbage"},
		{Name: RefreshCookieName, Value: "refresh-1"},
	})
	if !resolved {
		t.Fatal("expected resolution via refresh fallback")
	}
	if identity.ContractorID != "contractor-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	var minted *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName {
			minted = ck
		}
	}
	if minted == nil {
		t.Fatal("expected a fresh session cookie on the response")
	}
	claims, err := sm.Parse(minted.Value)
	if err != nil {
		t.Fatalf("minted cookie does not parse: %v", err)
	}
	if claims.ContractorID != "contractor-1" {
		t.Fatalf("minted cookie for wrong contractor: %+v", claims)
	}
}

func TestOracleUnknownRefreshIDUnresolved(t *testing.T) {
	sm := NewSessionManager("oracle-secret", time.Hour)
	oracle := NewCookieOracle(sm, newMemoryRefreshStore())

	_, resolved, _ := resolveOnce(t, oracle, []*http.Cookie{
		{Name: RefreshCookieName, Value: "unknown"},
	})
	if resolved {
		t.Fatal("expected no resolution for an unknown refresh id")
	}
}

func TestOracleFailsClosedOnStoreError(t *testing.T) {
	sm := NewSessionManager("oracle-secret", time.Hour)
	store := newMemoryRefreshStore()
	store.sessions["refresh-1"] = RefreshSession{ContractorID: "contractor-1"}
	store.failWith = errors.New("store unavailable")
	oracle := NewCookieOracle(sm, store)

	_, resolved, _ := resolveOnce(t, oracle, []*http.Cookie{
		{Name: RefreshCookieName, Value: "refresh-1"},
	})
	if resolved {
		t.Fatal("expected no resolution when the refresh store errors")
	}
}
