package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const FisherIDKey contextKey = "fisher_id"

// CookieName is the cookie carrying the fisher token.
const CookieName = "access_token"

// CookieMaxAge keeps the identity cookie for a hundred years.
const CookieMaxAge = 100 * 365 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// FisherLookup reports whether a token subject still exists.
type FisherLookup interface {
	FisherExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TokenAuth signs and verifies the opaque fisher token. Tokens do not
// expire; the cookie lifetime bounds them.
type TokenAuth struct {
	Secret []byte
	Secure bool
}

func NewTokenAuth(secret string, secure bool) *TokenAuth {
	return &TokenAuth{Secret: []byte(secret), Secure: secure}
}

func (a *TokenAuth) IssueToken(fisherID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"fisher_id": fisherID.String(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

func (a *TokenAuth) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	idStr, ok := claims["fisher_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// SetCookie writes the long-lived HttpOnly identity cookie.
func (a *TokenAuth) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   a.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FisherFromRequest resolves the cookie to a fisher id without checking
// that the fisher exists.
func (a *TokenAuth) FisherFromRequest(r *http.Request) (uuid.UUID, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return uuid.Nil, ErrInvalidToken
	}
	return a.ParseToken(c.Value)
}

// Middleware rejects requests whose cookie is missing, invalid or names an
// unknown fisher, and attaches the fisher id to the context.
func (a *TokenAuth) Middleware(lookup FisherLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fisherID, err := a.FisherFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid access token", r)
				return
			}

			exists, err := lookup.FisherExists(r.Context(), fisherID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", r)
				return
			}
			if !exists {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown fisher", r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithFisherID(r.Context(), fisherID)))
		})
	}
}

func WithFisherID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, FisherIDKey, id)
}

// GetFisherID extracts fisher_id from request context
func GetFisherID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(FisherIDKey).(uuid.UUID)
	return id
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := GetRequestID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
