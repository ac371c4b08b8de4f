package seed

import "github.com/dropDatabas3/helloid/internal/domain/repository"

// Bundle es el conjunto declarativo de datos que aplica el bootstrap:
// credenciales (roles, users, asignaciones) + configuración (clients,
// resources). Es la unión de UserSeed.json y Config.json.
type Bundle struct {
	Roles     []string   `json:"roles"`
	Users     []User     `json:"users"`
	UserRoles []UserRole `json:"userRoles"`

	Clients           []Client   `json:"clients"`
	IdentityResources []Resource `json:"identityResources"`
	APIResources      []Resource `json:"apiResources"`
}

// User es un usuario seed. Password viaja en texto plano en el seed y el
// credential store lo hashea al crear; nunca se persiste plano.
type User struct {
	Email    string             `json:"email"`
	UserName string             `json:"userName"`
	Password string             `json:"password"`
	Claims   []repository.Claim `json:"claims"`
}

// UserRole asigna un rol a un usuario por email.
type UserRole struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client es un client seed. Secrets viaja en texto plano y el reconciler
// lo convierte a hash con salt antes de insertar.
type Client struct {
	ClientID               string   `json:"clientId"`
	Name                   string   `json:"name"`
	GrantTypes             []string `json:"grantTypes"`
	Secrets                []string `json:"secrets"`
	Scopes                 []string `json:"scopes"`
	RedirectURIs           []string `json:"redirectUris"`
	PostLogoutRedirectURIs []string `json:"postLogoutRedirectUris"`
	AllowedCORSOrigins     []string `json:"allowedCorsOrigins"`
	LogoURI                string   `json:"logoUri"`
	ClientURI              string   `json:"clientUri"`
	RequireConsent         bool     `json:"requireConsent"`
	AllowOfflineAccess     bool     `json:"allowOfflineAccess"`
}

// Resource describe un identity resource o un api resource seed.
type Resource struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	ClaimTypes  []string `json:"claimTypes"`
}

// Default retorna el bundle embebido: dos usuarios demo con sus roles y el
// set fijo de clients/resources. Es el fallback cuando no hay override.
func Default() *Bundle {
	return &Bundle{
		Roles: []string{"admin", "user"},
		Users: []User{
			{
				Email:    "BobSmith@email.com",
				UserName: "bob",
				Password: "Pass123$",
				Claims: []repository.Claim{
					{Type: repository.ClaimName, Value: "Bob Smith"},
					{Type: repository.ClaimGivenName, Value: "Bob"},
					{Type: repository.ClaimFamilyName, Value: "Smith"},
					{Type: repository.ClaimEmail, Value: "BobSmith@email.com"},
					{Type: repository.ClaimEmailVerified, Value: "true"},
					{Type: repository.ClaimAddress, Value: `{"street_address":"One Hacker Way","locality":"Heidelberg","postal_code":69118,"country":"Germany"}`},
				},
			},
			{
				Email:    "AliceSmith@email.com",
				UserName: "alice",
				Password: "Pass123$",
				Claims: []repository.Claim{
					{Type: repository.ClaimName, Value: "Alice Smith"},
					{Type: repository.ClaimGivenName, Value: "Alice"},
					{Type: repository.ClaimFamilyName, Value: "Smith"},
					{Type: repository.ClaimEmail, Value: "AliceSmith@email.com"},
					{Type: repository.ClaimEmailVerified, Value: "true"},
					{Type: repository.ClaimAddress, Value: `{"street_address":"One Hacker Way","locality":"Heidelberg","postal_code":69118,"country":"Germany"}`},
				},
			},
		},
		UserRoles: []UserRole{
			{Email: "BobSmith@email.com", Role: "admin"},
			{Email: "BobSmith@email.com", Role: "user"},
			{Email: "AliceSmith@email.com", Role: "user"},
		},
		Clients: []Client{
			{
				// client credentials, machine-to-machine
				ClientID:   "client",
				GrantTypes: []string{repository.GrantClientCredentials},
				Secrets:    []string{"secret"},
				Scopes:     []string{"api1"},
			},
			{
				// resource owner password
				ClientID:   "ro.client",
				GrantTypes: []string{repository.GrantPassword},
				Secrets:    []string{"secret"},
				Scopes:     []string{"api1"},
			},
			{
				// hybrid + client credentials (MVC)
				ClientID:               "mvc",
				Name:                   "MVC Client",
				GrantTypes:             []string{repository.GrantHybrid, repository.GrantClientCredentials},
				Secrets:                []string{"secret"},
				RequireConsent:         true,
				RedirectURIs:           []string{"http://localhost:5002/signin-oidc"},
				PostLogoutRedirectURIs: []string{"http://localhost:5002/signout-callback-oidc"},
				Scopes:                 []string{"openid", "profile", "api1"},
				AllowOfflineAccess:     true,
			},
			{
				// SPA implicit
				ClientID:               "js",
				Name:                   "JavaScript Client",
				GrantTypes:             []string{repository.GrantImplicit},
				RedirectURIs:           []string{"http://localhost:5003/callback.html"},
				PostLogoutRedirectURIs: []string{"http://localhost:5003/index.html"},
				AllowedCORSOrigins:     []string{"http://localhost:5003"},
				Scopes:                 []string{"openid", "profile", "api1"},
			},
		},
		IdentityResources: []Resource{
			{
				Name:        "openid",
				DisplayName: "Your user identifier",
				ClaimTypes:  []string{repository.ClaimSubject},
			},
			{
				Name:        "profile",
				DisplayName: "User profile",
				ClaimTypes: []string{
					repository.ClaimName,
					repository.ClaimGivenName,
					repository.ClaimFamilyName,
					repository.ClaimPreferredUser,
				},
			},
		},
		APIResources: []Resource{
			{Name: "api1", DisplayName: "My API"},
		},
	}
}
