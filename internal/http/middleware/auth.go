// Package middleware contiene los middlewares HTTP del servicio.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/http/httpx"
	"github.com/dropDatabas3/helloid/internal/profile"
)

type principalKey struct{}

// Principal extrae el principal autenticado del contexto, si hay.
func Principal(ctx context.Context) *repository.Principal {
	p, _ := ctx.Value(principalKey{}).(*repository.Principal)
	return p
}

// Sessions es lo mínimo que el middleware necesita del profile service.
type Sessions interface {
	IsSessionActive(ctx context.Context, p *repository.Principal) (bool, error)
}

// RequireAuth valida el bearer token (HS256, emitido por el pipeline
// externo), arma el Principal con sus claims y rechaza sesiones muertas
// consultando al profile service (stamp rotado o lockout vigente).
func RequireAuth(secret string, sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
				return
			}

			p, err := parsePrincipal(raw, secret)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token rejected")
				return
			}

			active, err := sessions.IsSessionActive(r.Context(), p)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "session check failed")
				return
			}
			if !active {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "session no longer active")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// parsePrincipal valida firma y expiración y aplana los claims string del
// token en un Principal. Claims no-string (aud, arrays) no interesan acá.
func parsePrincipal(raw, secret string) (*repository.Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	p := &repository.Principal{}
	for k, v := range claims {
		if s, ok := v.(string); ok {
			p.Claims = append(p.Claims, repository.Claim{Type: k, Value: s})
		}
	}
	if p.Claim(repository.ClaimSubject) == "" {
		return nil, fmt.Errorf("token without sub")
	}
	return p, nil
}

// compile-time check: el profile service satisface Sessions.
var _ Sessions = (*profile.Service)(nil)
