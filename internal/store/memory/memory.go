// Package memory implementa los repositorios sobre estructuras en proceso.
// Se usa para desarrollo sin base y como double en los tests del core.
// El orden de inserción se preserva (los slices son la fuente de verdad).
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/security/password"
)

// Store implementa UserRepository, RoleRepository, ClientRepository,
// ResourceRepository y ConsentRepository.
type Store struct {
	mu sync.RWMutex

	users     []*repository.User
	passwords map[string]string // userID -> PHC hash
	roles     []string
	userRoles map[string]map[string]bool // userID -> set de roles

	clients     []repository.Client
	identityRes []repository.IdentityResource
	apiRes      []repository.APIResource

	consents []repository.Consent

	// StampsSupported simula un credential store sin security stamps
	// cuando se apaga. Solo para tests.
	StampsSupported bool
}

func New() *Store {
	return &Store{
		passwords:       make(map[string]string),
		userRoles:       make(map[string]map[string]bool),
		StampsSupported: true,
	}
}

// ---------------------------------------------------------------------------
// UserRepository

func (s *Store) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetByName(_ context.Context, username string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.UserName == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetByID(_ context.Context, id string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) Create(_ context.Context, input repository.CreateUserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, input.Email) || u.UserName == input.UserName {
			return nil, repository.ErrConflict
		}
	}
	phc, err := password.Hash(password.Default, input.Password)
	if err != nil {
		return nil, err
	}
	u := &repository.User{
		ID:            uuid.NewString(),
		UserName:      input.UserName,
		Email:         input.Email,
		Claims:        append([]repository.Claim(nil), input.Claims...),
		SecurityStamp: uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}
	s.users = append(s.users, u)
	s.passwords[u.ID] = phc
	cp := *u
	return &cp, nil
}

func (s *Store) AddClaims(_ context.Context, userID string, claims []repository.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			u.Claims = append(u.Claims, claims...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) AddToRole(_ context.Context, userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userRoles[userID] == nil {
		s.userRoles[userID] = make(map[string]bool)
	}
	s.userRoles[userID][strings.ToLower(role)] = true
	return nil
}

func (s *Store) IsInRole(_ context.Context, userID, role string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userRoles[userID][strings.ToLower(role)], nil
}

func (s *Store) SecurityStamp(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == userID {
			return u.SecurityStamp, nil
		}
	}
	return "", repository.ErrNotFound
}

func (s *Store) SupportsSecurityStamps() bool { return s.StampsSupported }

// SetLockout ajusta el estado de lockout de un usuario (admin/test helper).
func (s *Store) SetLockout(userID string, enabled bool, end *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			u.LockoutEnabled = enabled
			u.LockoutEnd = end
			return
		}
	}
}

// RotateSecurityStamp invalida el stamp actual (simula cambio de password).
func (s *Store) RotateSecurityStamp(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			u.SecurityStamp = uuid.NewString()
			return
		}
	}
}

// ---------------------------------------------------------------------------
// RoleRepository

func (s *Store) RoleExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if strings.EqualFold(r, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateRole(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roles {
		if strings.EqualFold(r, name) {
			return repository.ErrConflict
		}
	}
	s.roles = append(s.roles, name)
	return nil
}

// ---------------------------------------------------------------------------
// ClientRepository

func (s *Store) Any(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients) > 0, nil
}

func (s *Store) AddAll(_ context.Context, clients []repository.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, clients...)
	return nil
}

func (s *Store) GetByClientID(_ context.Context, clientID string) (*repository.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.clients {
		if s.clients[i].ClientID == clientID {
			cp := s.clients[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// RemoveClient borra un client (admin/test helper: simula un client dado de
// baja mientras sus grants siguen en el grant store).
func (s *Store) RemoveClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.clients[:0]
	for _, c := range s.clients {
		if c.ClientID != clientID {
			out = append(out, c)
		}
	}
	s.clients = out
}

// ---------------------------------------------------------------------------
// ResourceRepository

func (s *Store) IdentityAny(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identityRes) > 0, nil
}

func (s *Store) AddIdentity(_ context.Context, resources []repository.IdentityResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identityRes = append(s.identityRes, resources...)
	return nil
}

func (s *Store) APIAny(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apiRes) > 0, nil
}

func (s *Store) AddAPI(_ context.Context, resources []repository.APIResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiRes = append(s.apiRes, resources...)
	return nil
}

func (s *Store) FindByScopes(_ context.Context, scopes []string) (*repository.Resources, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[string]bool, len(scopes))
	for _, sc := range scopes {
		want[sc] = true
	}
	res := &repository.Resources{}
	for _, r := range s.identityRes {
		if want[r.Name] {
			res.Identity = append(res.Identity, r)
		}
	}
	for _, r := range s.apiRes {
		if want[r.Name] {
			res.API = append(res.API, r)
		}
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// ConsentRepository

func (s *Store) ListBySubject(_ context.Context, subjectID string) ([]repository.Consent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Consent
	for _, c := range s.consents {
		if c.SubjectID == subjectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) Revoke(_ context.Context, subjectID, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.consents[:0]
	for _, c := range s.consents {
		if !(c.SubjectID == subjectID && c.ClientID == clientID) {
			out = append(out, c)
		}
	}
	s.consents = out
	return nil
}

// AddConsent inserta un grant (lo hace el flujo OIDC de consent, externo a
// este core; acá existe para seeds de dev y tests).
func (s *Store) AddConsent(c repository.Consent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.consents = append(s.consents, c)
}
