// Package grants contiene los DTOs del endpoint de consent grants.
package grants

import "github.com/dropDatabas3/helloid/internal/grants"

// ListResponse es la respuesta de GET /grants.
type ListResponse struct {
	Grants []grants.GrantView `json:"grants"`
}

// RevokeRequest es el body de POST /grants/revoke.
type RevokeRequest struct {
	ClientID string `json:"client_id"`
}
