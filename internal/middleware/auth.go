package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const accountIdKey contextKey = "account_id"

// Auth проверяет Bearer-токены и кладёт идентификатор аккаунта в контекст
type Auth struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewAuth(secret, issuer string, ttl time.Duration) *Auth {
	return &Auth{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// IssueToken выпускает подписанный HS256 токен с аккаунтом в subject
func (a *Auth) IssueToken(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, r, "отсутствует заголовок Authorization")
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			unauthorized(w, r, "ожидается Bearer токен")
			return
		}

		accountID, err := a.parseToken(raw)
		if err != nil {
			logger.Warn("HTTP: Невалидный токен",
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			unauthorized(w, r, "невалидный токен")
			return
		}

		ctx := context.WithValue(r.Context(), accountIdKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) parseToken(raw string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}

func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIdKey).(uuid.UUID)
	return id, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      "unauthorized",
		"message":    message,
		"request_id": GetRequestID(r.Context()),
	})
}
