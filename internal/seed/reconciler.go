package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/metrics"
	"github.com/dropDatabas3/helloid/internal/observability/logger"
	"github.com/dropDatabas3/helloid/internal/security/secret"
)

// ErrRetriesExhausted indica que el bootstrap agotó los reintentos.
// El caller decide si el proceso sigue arrancando sin seed o aborta.
var ErrRetriesExhausted = errors.New("seed: retries exhausted")

// ExhaustedError envuelve la última falla tras agotar los reintentos.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("seed: retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is permite errors.Is(err, ErrRetriesExhausted).
func (e *ExhaustedError) Is(target error) bool { return target == ErrRetriesExhausted }

// Reconciler aplica el Bundle contra los stores de forma idempotente.
//
// Cada intento re-deriva lo que falta desde el estado actual (check-then-create
// por fila para roles/users, check de existencia por colección para la
// configuración), así corridas repetidas o solapadas convergen en vez de
// duplicar. OJO: check-then-create contra un store compartido es una carrera
// last-writer-wins; aceptable para datos seed-once, no hay lock distribuido.
type Reconciler struct {
	src       Loader
	users     repository.UserRepository
	roles     repository.RoleRepository
	clients   repository.ClientRepository
	resources repository.ResourceRepository

	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

// Options ajusta el comportamiento del reconciler.
type Options struct {
	// MaxRetries acota los intentos. Default 10. Nunca ilimitado.
	MaxRetries int
	// Backoff es la espera entre intentos, para no hot-loopear contra un
	// store caído. Default 500ms.
	Backoff time.Duration
}

// NewReconciler arma el reconciler con los stores destino.
func NewReconciler(src Loader, users repository.UserRepository, roles repository.RoleRepository,
	clients repository.ClientRepository, resources repository.ResourceRepository, opts Options) *Reconciler {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 10
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Reconciler{
		src:        src,
		users:      users,
		roles:      roles,
		clients:    clients,
		resources:  resources,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		log:        logger.Named("seed"),
	}
}

// Seed corre el bootstrap completo con reintentos acotados.
// A diferencia del patrón "log-and-continue", acá el agotamiento se
// retorna tipado (*ExhaustedError) para que el startup decida.
func (r *Reconciler) Seed(ctx context.Context) error {
	var last error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		metrics.SeedAttempts.Inc()

		err := r.attempt(ctx)
		if err == nil {
			if attempt > 1 {
				r.log.Info("seed succeeded after retry", zap.Int("attempt", attempt))
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		last = err
		metrics.SeedFailures.Inc()
		r.log.Error("seed attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", r.maxRetries),
			zap.Error(err))

		if attempt < r.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.backoff):
			}
		}
	}
	return &ExhaustedError{Attempts: r.maxRetries, Last: last}
}

// attempt es una pasada completa. El orden importa: roles, luego users,
// luego asignaciones (asumen roles+users), luego configuración.
func (r *Reconciler) attempt(ctx context.Context) error {
	bundle, err := r.src.Load()
	if err != nil {
		return err
	}

	if err := r.createRoles(ctx, bundle.Roles); err != nil {
		return err
	}
	if err := r.createUsers(ctx, bundle.Users); err != nil {
		return err
	}
	if err := r.assignRoles(ctx, bundle.UserRoles); err != nil {
		return err
	}
	return r.seedConfiguration(ctx, bundle)
}

// createRoles: check-then-create por nombre. Roles existentes no se tocan.
func (r *Reconciler) createRoles(ctx context.Context, roles []string) error {
	for _, name := range roles {
		exists, err := r.roles.RoleExists(ctx, name)
		if err != nil {
			return fmt.Errorf("role %q: %w", name, err)
		}
		if exists {
			continue
		}
		if err := r.roles.CreateRole(ctx, name); err != nil {
			return fmt.Errorf("create role %q: %w", name, err)
		}
		r.log.Info("role created", zap.String("role", name))
	}
	return nil
}

// createUsers: lookup por email; los claims se adjuntan solo al crear.
// Un usuario existente no se reconcilia (sin claim-diffing en reseed).
func (r *Reconciler) createUsers(ctx context.Context, users []User) error {
	for _, u := range users {
		_, err := r.users.GetByEmail(ctx, u.Email)
		if err == nil {
			continue
		}
		if !repository.IsNotFound(err) {
			return fmt.Errorf("lookup user %q: %w", u.Email, err)
		}
		_, err = r.users.Create(ctx, repository.CreateUserInput{
			UserName: u.UserName,
			Email:    u.Email,
			Password: u.Password,
			Claims:   u.Claims,
		})
		if err != nil {
			return fmt.Errorf("create user %q: %w", u.Email, err)
		}
		r.log.Info("user created", zap.String("email", u.Email))
	}
	return nil
}

// assignRoles aplica las asignaciones (email, rol). Referencias a un rol o
// usuario inexistente se saltean en silencio: no es error del seed.
func (r *Reconciler) assignRoles(ctx context.Context, assignments []UserRole) error {
	for _, a := range assignments {
		exists, err := r.roles.RoleExists(ctx, a.Role)
		if err != nil {
			return fmt.Errorf("role %q: %w", a.Role, err)
		}
		if !exists {
			continue
		}

		u, err := r.users.GetByEmail(ctx, a.Email)
		if repository.IsNotFound(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("lookup user %q: %w", a.Email, err)
		}

		has, err := r.users.IsInRole(ctx, u.ID, a.Role)
		if err != nil {
			return fmt.Errorf("roles of %q: %w", a.Email, err)
		}
		if has {
			continue
		}
		if err := r.users.AddToRole(ctx, u.ID, a.Role); err != nil {
			return fmt.Errorf("assign %q to %q: %w", a.Role, a.Email, err)
		}
	}
	return nil
}

// seedConfiguration inserta clients/resources. El check de existencia es a
// nivel colección: con una sola fila presente, el batch entero se saltea.
// Cada familia es su propia unidad atómica; un crash entre familias deja
// configuración parcial que el próximo boot completa.
func (r *Reconciler) seedConfiguration(ctx context.Context, bundle *Bundle) error {
	any, err := r.clients.Any(ctx)
	if err != nil {
		return fmt.Errorf("clients exist: %w", err)
	}
	if !any {
		clients, err := buildClients(bundle.Clients)
		if err != nil {
			return err
		}
		if err := r.clients.AddAll(ctx, clients); err != nil {
			return fmt.Errorf("add clients: %w", err)
		}
		r.log.Info("clients populated", zap.Int("count", len(clients)))
	} else {
		r.log.Debug("clients already populated")
	}

	any, err = r.resources.IdentityAny(ctx)
	if err != nil {
		return fmt.Errorf("identity resources exist: %w", err)
	}
	if !any {
		res := buildIdentityResources(bundle.IdentityResources)
		if err := r.resources.AddIdentity(ctx, res); err != nil {
			return fmt.Errorf("add identity resources: %w", err)
		}
		r.log.Info("identity resources populated", zap.Int("count", len(res)))
	} else {
		r.log.Debug("identity resources already populated")
	}

	any, err = r.resources.APIAny(ctx)
	if err != nil {
		return fmt.Errorf("api resources exist: %w", err)
	}
	if !any {
		res := buildAPIResources(bundle.APIResources)
		if err := r.resources.AddAPI(ctx, res); err != nil {
			return fmt.Errorf("add api resources: %w", err)
		}
		r.log.Info("api resources populated", zap.Int("count", len(res)))
	} else {
		r.log.Debug("api resources already populated")
	}

	return nil
}

// buildClients convierte los clients seed a entidades, hasheando secrets.
func buildClients(seeds []Client) ([]repository.Client, error) {
	out := make([]repository.Client, 0, len(seeds))
	for _, s := range seeds {
		hashes := make([]string, 0, len(s.Secrets))
		for _, plain := range s.Secrets {
			h, err := secret.Hash(plain)
			if err != nil {
				return nil, fmt.Errorf("client %q secret: %w", s.ClientID, err)
			}
			hashes = append(hashes, h)
		}
		out = append(out, repository.Client{
			ClientID:               s.ClientID,
			Name:                   s.Name,
			GrantTypes:             s.GrantTypes,
			SecretHashes:           hashes,
			Scopes:                 s.Scopes,
			RedirectURIs:           s.RedirectURIs,
			PostLogoutRedirectURIs: s.PostLogoutRedirectURIs,
			AllowedCORSOrigins:     s.AllowedCORSOrigins,
			LogoURI:                s.LogoURI,
			ClientURI:              s.ClientURI,
			RequireConsent:         s.RequireConsent,
			AllowOfflineAccess:     s.AllowOfflineAccess,
		})
	}
	return out, nil
}

func buildIdentityResources(seeds []Resource) []repository.IdentityResource {
	out := make([]repository.IdentityResource, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, repository.IdentityResource{
			Name:        s.Name,
			DisplayName: s.DisplayName,
			ClaimTypes:  s.ClaimTypes,
		})
	}
	return out
}

func buildAPIResources(seeds []Resource) []repository.APIResource {
	out := make([]repository.APIResource, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, repository.APIResource{
			Name:        s.Name,
			DisplayName: s.DisplayName,
			ClaimTypes:  s.ClaimTypes,
		})
	}
	return out
}
