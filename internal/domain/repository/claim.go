package repository

// Tipos de claim estándar que maneja el core.
// Nombres según OIDC core + el stamp de seguridad propio de la sesión.
const (
	ClaimSubject       = "sub"
	ClaimName          = "name"
	ClaimGivenName     = "given_name"
	ClaimFamilyName    = "family_name"
	ClaimEmail         = "email"
	ClaimEmailVerified = "email_verified"
	ClaimAddress       = "address"
	ClaimPreferredUser = "preferred_username"
	ClaimSecurityStamp = "security_stamp"
)

// Claim es un par (type, value) que describe un atributo del sujeto.
// El value de "address" es un string estructurado pero opaco para el core.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Principal representa un sujeto autenticado: el conjunto de claims que
// llegó dentro del token. Equivale al ClaimsPrincipal del pipeline externo.
type Principal struct {
	Claims []Claim
}

// Claim retorna el value del primer claim con ese type, o "" si no está.
func (p *Principal) Claim(typ string) string {
	if p == nil {
		return ""
	}
	for _, c := range p.Claims {
		if c.Type == typ {
			return c.Value
		}
	}
	return ""
}

// HasClaim indica si el principal trae al menos un claim de ese type.
func (p *Principal) HasClaim(typ string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Claims {
		if c.Type == typ {
			return true
		}
	}
	return false
}
