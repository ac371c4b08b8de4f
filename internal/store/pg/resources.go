package pg

import (
	"context"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
)

func (s *Store) IdentityAny(ctx context.Context) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM identity_resource)`
	var ok bool
	err := s.pool.QueryRow(ctx, q).Scan(&ok)
	return ok, err
}

func (s *Store) AddIdentity(ctx context.Context, resources []repository.IdentityResource) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO identity_resource (name, display_name, claim_types) VALUES ($1, $2, $3)`
	for _, r := range resources {
		if _, err := tx.Exec(ctx, q, r.Name, r.DisplayName, r.ClaimTypes); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) APIAny(ctx context.Context) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM api_resource)`
	var ok bool
	err := s.pool.QueryRow(ctx, q).Scan(&ok)
	return ok, err
}

func (s *Store) AddAPI(ctx context.Context, resources []repository.APIResource) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO api_resource (name, display_name, claim_types) VALUES ($1, $2, $3)`
	for _, r := range resources {
		if _, err := tx.Exec(ctx, q, r.Name, r.DisplayName, r.ClaimTypes); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) FindByScopes(ctx context.Context, scopes []string) (*repository.Resources, error) {
	res := &repository.Resources{}
	if len(scopes) == 0 {
		return res, nil
	}

	const qi = `SELECT name, display_name, claim_types FROM identity_resource WHERE name = ANY($1) ORDER BY id`
	rows, err := s.pool.Query(ctx, qi, scopes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r repository.IdentityResource
		if err := rows.Scan(&r.Name, &r.DisplayName, &r.ClaimTypes); err != nil {
			return nil, err
		}
		res.Identity = append(res.Identity, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qa = `SELECT name, display_name, claim_types FROM api_resource WHERE name = ANY($1) ORDER BY id`
	rows, err = s.pool.Query(ctx, qa, scopes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r repository.APIResource
		if err := rows.Scan(&r.Name, &r.DisplayName, &r.ClaimTypes); err != nil {
			return nil, err
		}
		res.API = append(res.API, r)
	}
	return res, rows.Err()
}
