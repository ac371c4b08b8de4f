package profile

import (
	"context"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
)

// StandardFactory es el PrincipalFactory por defecto: sub + username + los
// claims que el credential store adjuntó al crear el usuario.
type StandardFactory struct{}

// CreatePrincipal arma el claim set base del usuario.
func (StandardFactory) CreatePrincipal(_ context.Context, u *repository.User) (*repository.Principal, error) {
	claims := make([]repository.Claim, 0, len(u.Claims)+2)
	claims = append(claims,
		repository.Claim{Type: repository.ClaimSubject, Value: u.ID},
		repository.Claim{Type: repository.ClaimPreferredUser, Value: u.UserName},
	)
	claims = append(claims, u.Claims...)
	return &repository.Principal{Claims: claims}, nil
}

// StaticContributor aporta un set fijo de claims. Útil para re-activar los
// claims de perfil extendido vía configuración.
type StaticContributor []repository.Claim

func (c StaticContributor) Claims(_ *repository.User) []repository.Claim {
	return []repository.Claim(c)
}
