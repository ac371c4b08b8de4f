package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/security/password"
)

const userCols = `id, username, email, lockout_enabled, lockout_end, security_stamp, created_at`

func (s *Store) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	q := `SELECT ` + userCols + ` FROM app_user WHERE LOWER(email) = LOWER($1)`
	return s.scanUser(ctx, q, email)
}

func (s *Store) GetByName(ctx context.Context, username string) (*repository.User, error) {
	q := `SELECT ` + userCols + ` FROM app_user WHERE username = $1`
	return s.scanUser(ctx, q, username)
}

func (s *Store) GetByID(ctx context.Context, id string) (*repository.User, error) {
	q := `SELECT ` + userCols + ` FROM app_user WHERE id = $1`
	return s.scanUser(ctx, q, id)
}

func (s *Store) scanUser(ctx context.Context, q string, arg any) (*repository.User, error) {
	var u repository.User
	err := s.pool.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.UserName, &u.Email, &u.LockoutEnabled, &u.LockoutEnd,
		&u.SecurityStamp, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	claims, err := s.userClaims(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Claims = claims
	return &u, nil
}

func (s *Store) userClaims(ctx context.Context, userID string) ([]repository.Claim, error) {
	const q = `SELECT claim_type, claim_value FROM user_claim WHERE user_id = $1 ORDER BY id`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Claim
	for rows.Next() {
		var c repository.Claim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	phc, err := password.Hash(password.Default, input.Password)
	if err != nil {
		return nil, fmt.Errorf("pg: hash password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	u := repository.User{
		ID:            uuid.NewString(),
		UserName:      input.UserName,
		Email:         input.Email,
		SecurityStamp: uuid.NewString(),
		Claims:        input.Claims,
	}
	const q = `
		INSERT INTO app_user (id, username, email, password_hash, lockout_enabled, security_stamp)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING created_at`
	if err := tx.QueryRow(ctx, q, u.ID, u.UserName, u.Email, phc, u.SecurityStamp).Scan(&u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}

	for _, c := range input.Claims {
		const cq = `INSERT INTO user_claim (user_id, claim_type, claim_value) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, cq, u.ID, c.Type, c.Value); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) AddClaims(ctx context.Context, userID string, claims []repository.Claim) error {
	for _, c := range claims {
		const q = `INSERT INTO user_claim (user_id, claim_type, claim_value) VALUES ($1, $2, $3)`
		if _, err := s.pool.Exec(ctx, q, userID, c.Type, c.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AddToRole(ctx context.Context, userID, role string) error {
	const q = `
		INSERT INTO user_role (user_id, role_id)
		SELECT $1, id FROM role WHERE LOWER(name) = LOWER($2)
		ON CONFLICT DO NOTHING`
	_, err := s.pool.Exec(ctx, q, userID, role)
	return err
}

func (s *Store) IsInRole(ctx context.Context, userID, role string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM user_role ur
			JOIN role r ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND LOWER(r.name) = LOWER($2)
		)`
	var ok bool
	err := s.pool.QueryRow(ctx, q, userID, role).Scan(&ok)
	return ok, err
}

func (s *Store) SecurityStamp(ctx context.Context, userID string) (string, error) {
	const q = `SELECT security_stamp FROM app_user WHERE id = $1`
	var stamp string
	err := s.pool.QueryRow(ctx, q, userID).Scan(&stamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return stamp, err
}

func (s *Store) SupportsSecurityStamps() bool { return true }

// ---------------------------------------------------------------------------
// RoleRepository

func (s *Store) RoleExists(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM role WHERE LOWER(name) = LOWER($1))`
	var ok bool
	err := s.pool.QueryRow(ctx, q, name).Scan(&ok)
	return ok, err
}

func (s *Store) CreateRole(ctx context.Context, name string) error {
	const q = `INSERT INTO role (id, name) VALUES ($1, $2)`
	if _, err := s.pool.Exec(ctx, q, uuid.NewString(), name); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// isUniqueViolation detecta 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
