package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Cookie names used for the session pair.
const (
	SessionCookieName = "estimate_session"
	RefreshCookieName = "estimate_refresh"
)

// SessionManager issues and validates the JWT carried in the session cookie.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager builds a new manager.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// SessionClaims describes the session JWT payload.
type SessionClaims struct {
	ContractorID string `json:"sub"`
	Email        string `json:"email"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session JWT for a contractor.
func (sm *SessionManager) Issue(contractorID, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(sm.ttl)
	claims := &SessionClaims{
		ContractorID: contractorID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   contractorID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(sm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a session JWT and returns its claims.
func (sm *SessionManager) Parse(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return sm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}
