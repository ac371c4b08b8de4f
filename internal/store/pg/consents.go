package pg

import (
	"context"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
)

// ListBySubject retorna los consents en orden de inserción (seq).
func (s *Store) ListBySubject(ctx context.Context, subjectID string) ([]repository.Consent, error) {
	const q = `
		SELECT subject_id, client_id, scopes, created_at, expiration
		FROM consent WHERE subject_id = $1 ORDER BY seq`
	rows, err := s.pool.Query(ctx, q, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Consent
	for rows.Next() {
		var c repository.Consent
		if err := rows.Scan(&c.SubjectID, &c.ClientID, &c.Scopes, &c.CreatedAt, &c.Expiration); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Revoke borra el consent. DELETE sobre cero filas no es error: idempotente.
func (s *Store) Revoke(ctx context.Context, subjectID, clientID string) error {
	const q = `DELETE FROM consent WHERE subject_id = $1 AND client_id = $2`
	_, err := s.pool.Exec(ctx, q, subjectID, clientID)
	return err
}
