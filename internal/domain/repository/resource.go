package repository

import "context"

// IdentityResource es un scope de identidad (openid, profile, ...) con los
// claim types que habilita.
type IdentityResource struct {
	Name        string
	DisplayName string
	ClaimTypes  []string
}

// APIResource es un API protegido al que los clients piden acceso.
type APIResource struct {
	Name        string
	DisplayName string
	ClaimTypes  []string
}

// Resources agrupa el resultado de un lookup por scopes.
type Resources struct {
	Identity []IdentityResource
	API      []APIResource
}

// ResourceRepository define operaciones sobre resources (configuration store).
// Identity y API se siembran de forma independiente, cada familia con su
// propio check de existencia a nivel colección.
type ResourceRepository interface {
	IdentityAny(ctx context.Context) (bool, error)
	AddIdentity(ctx context.Context, resources []IdentityResource) error

	APIAny(ctx context.Context) (bool, error)
	AddAPI(ctx context.Context, resources []APIResource) error

	// FindByScopes retorna los resources cuyo Name matchea alguno de los
	// scopes pedidos. Scopes sin resource asociado simplemente no aparecen.
	FindByScopes(ctx context.Context, scopes []string) (*Resources, error)
}
