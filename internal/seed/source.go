package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Nombres de los archivos de override dentro de <ContentRoot>/Setup/.
const (
	userSeedFile = "UserSeed.json"
	configFile   = "Config.json"
)

// Source produce el Bundle a aplicar. Por defecto usa el bundle embebido;
// con UseCustomizationData activo, los archivos de Setup/ lo reemplazan
// por partes: UserSeed.json la parte de credenciales, Config.json la de
// configuración. La ausencia de un archivo no es error (fallback); un
// archivo presente pero malformado sí lo es.
type Source struct {
	UseCustomizationData bool
	ContentRoot          string
}

// Loader es lo que el reconciler consume. Source es la implementación real;
// los tests inyectan las suyas.
type Loader interface {
	Load() (*Bundle, error)
}

// Load arma el bundle efectivo.
func (s *Source) Load() (*Bundle, error) {
	bundle := Default()
	if !s.UseCustomizationData {
		return bundle, nil
	}

	var users struct {
		Roles     []string   `json:"roles"`
		Users     []User     `json:"users"`
		UserRoles []UserRole `json:"userRoles"`
	}
	if ok, err := s.readSetup(userSeedFile, &users); err != nil {
		return nil, err
	} else if ok {
		bundle.Roles = users.Roles
		bundle.Users = users.Users
		bundle.UserRoles = users.UserRoles
	}

	var conf struct {
		Clients           []Client   `json:"clients"`
		IdentityResources []Resource `json:"identityResources"`
		APIResources      []Resource `json:"apiResources"`
	}
	if ok, err := s.readSetup(configFile, &conf); err != nil {
		return nil, err
	} else if ok {
		bundle.Clients = conf.Clients
		bundle.IdentityResources = conf.IdentityResources
		bundle.APIResources = conf.APIResources
	}

	return bundle, nil
}

// readSetup parsea <ContentRoot>/Setup/<name> dentro de v.
// Retorna (false, nil) si el archivo no existe.
func (s *Source) readSetup(name string, v any) (bool, error) {
	path := filepath.Join(s.ContentRoot, "Setup", name)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	return true, nil
}
