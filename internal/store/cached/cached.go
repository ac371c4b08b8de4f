// Package cached decora el configuration store con un cache de lectura.
// El grant manager hace un lookup de client + resources por cada grant
// listado; la metadata cambia poco y aguanta un TTL corto.
package cached

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/helloid/internal/cache"
	"github.com/dropDatabas3/helloid/internal/domain/repository"
)

// Clients decora un ClientRepository. Solo cachea lecturas por client id;
// Any y AddAll pasan directo (son del path de seed, no del hot path).
type Clients struct {
	inner repository.ClientRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewClients(inner repository.ClientRepository, c cache.Cache, ttl time.Duration) *Clients {
	return &Clients{inner: inner, cache: c, ttl: ttl}
}

func (c *Clients) Any(ctx context.Context) (bool, error) {
	return c.inner.Any(ctx)
}

func (c *Clients) AddAll(ctx context.Context, clients []repository.Client) error {
	return c.inner.AddAll(ctx, clients)
}

func (c *Clients) GetByClientID(ctx context.Context, clientID string) (*repository.Client, error) {
	key := "client:" + clientID
	if b, ok := c.cache.Get(key); ok {
		var cl repository.Client
		if json.Unmarshal(b, &cl) == nil {
			return &cl, nil
		}
		c.cache.Delete(key)
	}

	cl, err := c.inner.GetByClientID(ctx, clientID)
	if err != nil {
		// ErrNotFound no se cachea: un client borrado debe desaparecer ya,
		// y uno recién creado debe aparecer sin esperar el TTL.
		return nil, err
	}
	if b, err := json.Marshal(cl); err == nil {
		c.cache.Set(key, b, c.ttl)
	}
	return cl, nil
}

// Resources decora un ResourceRepository cacheando FindByScopes.
type Resources struct {
	inner repository.ResourceRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewResources(inner repository.ResourceRepository, c cache.Cache, ttl time.Duration) *Resources {
	return &Resources{inner: inner, cache: c, ttl: ttl}
}

func (r *Resources) IdentityAny(ctx context.Context) (bool, error) {
	return r.inner.IdentityAny(ctx)
}

func (r *Resources) AddIdentity(ctx context.Context, resources []repository.IdentityResource) error {
	return r.inner.AddIdentity(ctx, resources)
}

func (r *Resources) APIAny(ctx context.Context) (bool, error) {
	return r.inner.APIAny(ctx)
}

func (r *Resources) AddAPI(ctx context.Context, resources []repository.APIResource) error {
	return r.inner.AddAPI(ctx, resources)
}

func (r *Resources) FindByScopes(ctx context.Context, scopes []string) (*repository.Resources, error) {
	key := scopesKey(scopes)
	if b, ok := r.cache.Get(key); ok {
		var res repository.Resources
		if json.Unmarshal(b, &res) == nil {
			return &res, nil
		}
		r.cache.Delete(key)
	}

	res, err := r.inner.FindByScopes(ctx, scopes)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(res); err == nil {
		r.cache.Set(key, b, r.ttl)
	}
	return res, nil
}

// scopesKey normaliza el set de scopes: el orden de pedido no cambia la key.
func scopesKey(scopes []string) string {
	cp := append([]string(nil), scopes...)
	sort.Strings(cp)
	return "resources:" + strings.Join(cp, ",")
}
