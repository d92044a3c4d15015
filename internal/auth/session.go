package auth

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName is the admin session cookie.
	CookieName = "admin_session"

	sessionTTL = 7 * 24 * time.Hour
)

// SessionManager issues and verifies signed (and, when a block key is
// configured, encrypted) admin session cookies. The cookie value carries no
// secrets; the previous scheme of base64-encoding the admin password is gone
// for good.
type SessionManager struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewSessionManager builds a SessionManager from hex-encoded keys. The block
// key may be empty, in which case cookies are signed but not encrypted.
func NewSessionManager(hashKeyHex, blockKeyHex string, secure bool) (*SessionManager, error) {
	hashKey, err := hex.DecodeString(hashKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}
	if len(hashKey) < 32 {
		return nil, fmt.Errorf("session hash key must be at least 32 bytes")
	}

	var blockKey []byte
	if blockKeyHex != "" {
		blockKey, err = hex.DecodeString(blockKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(sessionTTL.Seconds()))
	return &SessionManager{sc: sc, secure: secure}, nil
}

// sessionClaims is the payload stored in the cookie.
type sessionClaims struct {
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
}

// IssueSession writes a fresh admin session cookie to w.
func (m *SessionManager) IssueSession(w http.ResponseWriter) error {
	encoded, err := m.sc.Encode(CookieName, sessionClaims{
		Role:     "admin",
		IssuedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the admin session cookie.
func (m *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsAuthenticated reports whether r carries a valid admin session cookie.
func (m *SessionManager) IsAuthenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	var claims sessionClaims
	if err := m.sc.Decode(CookieName, c.Value, &claims); err != nil {
		return false
	}
	return claims.Role == "admin"
}

// CheckPassword compares a candidate admin password against the configured
// bcrypt hash in constant time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
