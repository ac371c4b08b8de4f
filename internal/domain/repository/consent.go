package repository

import (
	"context"
	"time"
)

// Consent representa el consentimiento de un usuario a un client.
// Lo crea el flujo OIDC de consent (fuera del core); acá solo se lee y revoca.
type Consent struct {
	SubjectID  string
	ClientID   string
	Scopes     []string
	CreatedAt  time.Time
	Expiration *time.Time
}

// ConsentRepository define operaciones sobre user consents (grant store).
type ConsentRepository interface {
	// ListBySubject lista los consents del sujeto en orden de inserción.
	ListBySubject(ctx context.Context, subjectID string) ([]Consent, error)

	// Revoke elimina el consent (subject, client). Idempotente: revocar un
	// consent inexistente no es error.
	Revoke(ctx context.Context, subjectID, clientID string) error
}
