// Package profile resuelve el claim set que se emite dentro de los tokens
// y responde si la sesión del sujeto sigue viva. Es el punto que el pipeline
// de emisión (externo) consulta por cada token request.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/metrics"
)

var (
	// ErrMissingSubject indica que el principal no trae claim "sub".
	// Se propaga: emitir un token sin sujeto es una falla de seguridad.
	ErrMissingSubject = errors.New("profile: missing subject")

	// ErrUnknownSubject indica que el "sub" no corresponde a ningún usuario.
	ErrUnknownSubject = errors.New("profile: unknown subject")
)

// PrincipalFactory construye el claim set base de un usuario (username,
// user id, claims del store). Capacidad inyectada: el core solo agrega
// encima de su salida, nunca la reinterpreta.
type PrincipalFactory interface {
	CreatePrincipal(ctx context.Context, u *repository.User) (*repository.Principal, error)
}

// Contributor aporta claims suplementarios por encima del factory.
// La lista arranca vacía a propósito (minimal disclosure): los claims de
// perfil extendido (dirección, datos de pago) existieron y fueron
// deshabilitados; re-activarlos es registrar un Contributor, no tocar código.
type Contributor interface {
	Claims(u *repository.User) []repository.Claim
}

// Service implementa la resolución de claims y el check de sesión.
type Service struct {
	users        repository.UserRepository
	factory      PrincipalFactory
	contributors []Contributor
	now          func() time.Time
}

// NewService arma el servicio. contributors puede ser nil.
func NewService(users repository.UserRepository, factory PrincipalFactory, contributors ...Contributor) *Service {
	return &Service{
		users:        users,
		factory:      factory,
		contributors: contributors,
		now:          time.Now,
	}
}

// ResolveClaims retorna el claim set a embeber en el token del sujeto.
// Los claims son un set: duplicados por (type, value) colapsan.
func (s *Service) ResolveClaims(ctx context.Context, p *repository.Principal) ([]repository.Claim, error) {
	u, err := s.subjectUser(ctx, p)
	if err != nil {
		return nil, err
	}

	principal, err := s.factory.CreatePrincipal(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("profile: principal factory: %w", err)
	}

	claims := principal.Claims
	for _, c := range s.contributors {
		claims = append(claims, c.Claims(u)...)
	}

	metrics.ClaimsResolved.Inc()
	return dedupe(claims), nil
}

// IsSessionActive responde si la sesión del sujeto sigue siendo válida.
//
// El orden importa: un security stamp presente que no matchea el del store
// es veto absoluto (la credencial cambió después de emitir el token) y
// corta sin mirar lockout. El lockout solo se evalúa cuando no hay stamp
// en el principal o el store no soporta stamps.
func (s *Service) IsSessionActive(ctx context.Context, p *repository.Principal) (bool, error) {
	u, err := s.subjectUser(ctx, p)
	if errors.Is(err, ErrUnknownSubject) {
		metrics.SessionChecks.WithLabelValues("inactive").Inc()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if s.users.SupportsSecurityStamps() && p.HasClaim(repository.ClaimSecurityStamp) {
		current, err := s.users.SecurityStamp(ctx, u.ID)
		if err != nil {
			return false, fmt.Errorf("profile: security stamp: %w", err)
		}
		if current != p.Claim(repository.ClaimSecurityStamp) {
			metrics.SessionChecks.WithLabelValues("inactive").Inc()
			return false, nil
		}
	}

	active := !u.LockoutEnabled || u.LockoutEnd == nil || !u.LockoutEnd.After(s.now())
	if active {
		metrics.SessionChecks.WithLabelValues("active").Inc()
	} else {
		metrics.SessionChecks.WithLabelValues("inactive").Inc()
	}
	return active, nil
}

// subjectUser extrae el sub del principal y resuelve el usuario.
func (s *Service) subjectUser(ctx context.Context, p *repository.Principal) (*repository.User, error) {
	if p == nil {
		return nil, ErrMissingSubject
	}
	sub := p.Claim(repository.ClaimSubject)
	if sub == "" {
		return nil, ErrMissingSubject
	}
	u, err := s.users.GetByID(ctx, sub)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSubject, sub)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// dedupe colapsa claims duplicados por (type, value) preservando el orden
// de primera aparición.
func dedupe(claims []repository.Claim) []repository.Claim {
	seen := make(map[repository.Claim]struct{}, len(claims))
	out := make([]repository.Claim, 0, len(claims))
	for _, c := range claims {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
