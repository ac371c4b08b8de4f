package repository

import "context"

// Grant types soportados por los clients seed.
const (
	GrantClientCredentials = "client_credentials"
	GrantPassword          = "password"
	GrantHybrid            = "hybrid"
	GrantImplicit          = "implicit"
	GrantAuthorizationCode = "authorization_code"
)

// Client representa un cliente OAuth2/OIDC.
// SecretHashes guarda los secrets como hash con salt, nunca plaintext.
type Client struct {
	ClientID               string
	Name                   string
	GrantTypes             []string
	SecretHashes           []string
	Scopes                 []string
	RedirectURIs           []string
	PostLogoutRedirectURIs []string
	AllowedCORSOrigins     []string
	LogoURI                string
	ClientURI              string
	RequireConsent         bool
	AllowOfflineAccess     bool
}

// ClientRepository define operaciones sobre clients (configuration store).
type ClientRepository interface {
	// Any indica si existe al menos un client. El seed usa esto como
	// check de existencia a nivel colección: si hay uno, no se re-siembra.
	Any(ctx context.Context) (bool, error)

	// AddAll inserta el lote completo de clients en un batch atómico.
	AddAll(ctx context.Context, clients []Client) error

	// GetByClientID busca un client por su id público.
	// Retorna ErrNotFound si no existe.
	GetByClientID(ctx context.Context, clientID string) (*Client, error)
}
