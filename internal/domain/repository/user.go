package repository

import (
	"context"
	"time"
)

// User representa un usuario del credential store.
type User struct {
	ID             string
	UserName       string
	Email          string
	Claims         []Claim
	LockoutEnabled bool
	LockoutEnd     *time.Time
	// SecurityStamp es un token opaco que se invalida cada vez que cambia
	// estado que afecta credenciales (password, lockout, etc).
	SecurityStamp string
	CreatedAt     time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
// Password llega en texto plano y el store lo hashea (argon2id).
type CreateUserInput struct {
	UserName string
	Email    string
	Password string
	Claims   []Claim
}

// UserRepository define operaciones sobre usuarios (credential store).
type UserRepository interface {
	// GetByEmail busca un usuario por email (case-insensitive).
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByName busca un usuario por username.
	GetByName(ctx context.Context, username string) (*User, error)

	// GetByID busca un usuario por id (el "sub" de los tokens).
	GetByID(ctx context.Context, id string) (*User, error)

	// Create crea el usuario con sus claims iniciales.
	// Retorna ErrConflict si el email o username ya existen.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// AddClaims agrega claims a un usuario existente.
	AddClaims(ctx context.Context, userID string, claims []Claim) error

	// AddToRole otorga un rol al usuario. Idempotente: si ya lo tiene, no-op.
	AddToRole(ctx context.Context, userID, role string) error

	// IsInRole indica si el usuario ya tiene el rol.
	IsInRole(ctx context.Context, userID, role string) (bool, error)

	// SecurityStamp retorna el stamp actual del usuario.
	SecurityStamp(ctx context.Context, userID string) (string, error)

	// SupportsSecurityStamps indica si este store mantiene security stamps.
	SupportsSecurityStamps() bool
}

// RoleRepository define operaciones sobre roles.
// Los roles se crean en bootstrap y nunca se mutan ni borran desde el core.
type RoleRepository interface {
	// RoleExists verifica si el rol existe (match case-insensitive).
	RoleExists(ctx context.Context, name string) (bool, error)

	// CreateRole crea el rol. Retorna ErrConflict si ya existe.
	CreateRole(ctx context.Context, name string) error
}
