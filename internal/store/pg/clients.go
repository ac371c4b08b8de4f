package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
)

func (s *Store) Any(ctx context.Context) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM client)`
	var ok bool
	err := s.pool.QueryRow(ctx, q).Scan(&ok)
	return ok, err
}

// AddAll inserta el lote completo en una transacción: o entran todos los
// clients o ninguno (la unidad atómica del seed es la colección).
func (s *Store) AddAll(ctx context.Context, clients []repository.Client) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO client (
			client_id, name, grant_types, secret_hashes, scopes,
			redirect_uris, post_logout_redirect_uris, allowed_cors_origins,
			logo_uri, client_uri, require_consent, allow_offline_access
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, c := range clients {
		_, err := tx.Exec(ctx, q,
			c.ClientID, c.Name, c.GrantTypes, c.SecretHashes, c.Scopes,
			c.RedirectURIs, c.PostLogoutRedirectURIs, c.AllowedCORSOrigins,
			c.LogoURI, c.ClientURI, c.RequireConsent, c.AllowOfflineAccess,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrConflict
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetByClientID(ctx context.Context, clientID string) (*repository.Client, error) {
	const q = `
		SELECT client_id, name, grant_types, secret_hashes, scopes,
		       redirect_uris, post_logout_redirect_uris, allowed_cors_origins,
		       logo_uri, client_uri, require_consent, allow_offline_access
		FROM client WHERE client_id = $1`
	var c repository.Client
	err := s.pool.QueryRow(ctx, q, clientID).Scan(
		&c.ClientID, &c.Name, &c.GrantTypes, &c.SecretHashes, &c.Scopes,
		&c.RedirectURIs, &c.PostLogoutRedirectURIs, &c.AllowedCORSOrigins,
		&c.LogoURI, &c.ClientURI, &c.RequireConsent, &c.AllowOfflineAccess,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
