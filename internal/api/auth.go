package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fastprodman/walletsvc/internal/ledger"
)

type ctxKey int

const loginKey ctxKey = 0

// Tokens issues and validates the HS256 access tokens handed out on
// authentication.
type Tokens struct {
	secret []byte
	expiry time.Duration
}

func NewTokens(secret string, expiry time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), expiry: expiry}
}

// Issue returns a signed token carrying the player's login and id.
func (t *Tokens) Issue(player *ledger.Player, login string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"login":     login,
		"player_id": player.ID,
		"exp":       time.Now().Add(t.expiry).Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// loginFromRequest validates the Bearer token on r and returns the
// login claim.
func (t *Tokens) loginFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}

		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}

	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return "", fmt.Errorf("missing login claim")
	}

	return login, nil
}

// RequireAuth rejects requests without a valid token and stores the
// authenticated login in the request context.
func (t *Tokens) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, err := t.loginFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}

		ctx := context.WithValue(r.Context(), loginKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authedLogin returns the login stored by RequireAuth.
func authedLogin(r *http.Request) string {
	login, _ := r.Context().Value(loginKey).(string)

	return login
}
