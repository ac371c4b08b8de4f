// Package grants lista y revoca los consent grants de un usuario, cruzando
// los registros del grant store con la metadata viva de clients/resources.
package grants

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/metrics"
)

// GrantView es lo que ve el usuario en la pantalla de consents: datos de
// display del client + labels de los scopes otorgados.
type GrantView struct {
	ClientID      string     `json:"client_id"`
	ClientName    string     `json:"client_name"`
	ClientLogoURL string     `json:"client_logo_url,omitempty"`
	ClientURL     string     `json:"client_url,omitempty"`
	Created       time.Time  `json:"created"`
	Expires       *time.Time `json:"expires,omitempty"`

	IdentityGrantNames []string `json:"identity_grant_names"`
	APIGrantNames      []string `json:"api_grant_names"`
}

// Manager implementa el listado y la revocación de grants.
type Manager struct {
	consents  repository.ConsentRepository
	clients   repository.ClientRepository
	resources repository.ResourceRepository
}

func NewManager(consents repository.ConsentRepository, clients repository.ClientRepository,
	resources repository.ResourceRepository) *Manager {
	return &Manager{consents: consents, clients: clients, resources: resources}
}

// List retorna las vistas de grant del sujeto en el orden del grant store
// (no se impone sort; un caller que necesite orden estable ordena él).
//
// Un grant cuyo client ya no existe en el configuration store se omite en
// silencio: el registro persiste, pero es invisible para el usuario.
func (m *Manager) List(ctx context.Context, subjectID string) ([]GrantView, error) {
	grants, err := m.consents.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("grants: list consents: %w", err)
	}

	views := make([]GrantView, 0, len(grants))
	for _, g := range grants {
		client, err := m.clients.GetByClientID(ctx, g.ClientID)
		if repository.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("grants: client %q: %w", g.ClientID, err)
		}

		res, err := m.resources.FindByScopes(ctx, g.Scopes)
		if err != nil {
			return nil, fmt.Errorf("grants: resources for %q: %w", g.ClientID, err)
		}

		name := client.Name
		if name == "" {
			name = client.ClientID
		}
		views = append(views, GrantView{
			ClientID:           client.ClientID,
			ClientName:         name,
			ClientLogoURL:      client.LogoURI,
			ClientURL:          client.ClientURI,
			Created:            g.CreatedAt,
			Expires:            g.Expiration,
			IdentityGrantNames: identityNames(res.Identity),
			APIGrantNames:      apiNames(res.API),
		})
	}
	return views, nil
}

// Revoke elimina el consent (subject, client). Revocar un grant inexistente
// no es error: la operación es idempotente.
func (m *Manager) Revoke(ctx context.Context, subjectID, clientID string) error {
	if err := m.consents.Revoke(ctx, subjectID, clientID); err != nil {
		return fmt.Errorf("grants: revoke %q: %w", clientID, err)
	}
	metrics.GrantsRevoked.Inc()
	return nil
}

func identityNames(resources []repository.IdentityResource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		if r.DisplayName != "" {
			out = append(out, r.DisplayName)
		} else {
			out = append(out, r.Name)
		}
	}
	return out
}

func apiNames(resources []repository.APIResource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		if r.DisplayName != "" {
			out = append(out, r.DisplayName)
		} else {
			out = append(out, r.Name)
		}
	}
	return out
}
