// Package grants expone la pantalla de consent-management: listar los
// grants del usuario autenticado y revocar por client.
package grants

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	grantsvc "github.com/dropDatabas3/helloid/internal/grants"
	dto "github.com/dropDatabas3/helloid/internal/http/dto/grants"
	"github.com/dropDatabas3/helloid/internal/http/httpx"
	mw "github.com/dropDatabas3/helloid/internal/http/middleware"
	"github.com/dropDatabas3/helloid/internal/observability/logger"
)

type Controller struct {
	manager *grantsvc.Manager
	log     *zap.Logger
}

func NewController(manager *grantsvc.Manager) *Controller {
	return &Controller{manager: manager, log: logger.Named("grants")}
}

// List maneja GET /grants.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	sub := subject(r)
	if sub == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing subject")
		return
	}

	views, err := c.manager.List(r.Context(), sub)
	if err != nil {
		c.log.Error("list grants", zap.String("sub", sub), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not list grants")
		return
	}
	if views == nil {
		views = []grantsvc.GrantView{}
	}
	httpx.WriteJSON(w, http.StatusOK, dto.ListResponse{Grants: views})
}

// Revoke maneja POST /grants/revoke. Idempotente: revocar un grant que ya
// no existe también responde 204.
func (c *Controller) Revoke(w http.ResponseWriter, r *http.Request) {
	sub := subject(r)
	if sub == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing subject")
		return
	}

	var req dto.RevokeRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	if req.ClientID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "client_id required")
		return
	}

	if err := c.manager.Revoke(r.Context(), sub, req.ClientID); err != nil {
		c.log.Error("revoke grant", zap.String("sub", sub), zap.String("client_id", req.ClientID), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not revoke grant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func subject(r *http.Request) string {
	return mw.Principal(r.Context()).Claim(repository.ClaimSubject)
}
