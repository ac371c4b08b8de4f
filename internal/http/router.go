// Package http arma el router del servicio.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	grantsctrl "github.com/dropDatabas3/helloid/internal/http/controllers/grants"
	"github.com/dropDatabas3/helloid/internal/http/controllers/health"
	mw "github.com/dropDatabas3/helloid/internal/http/middleware"
)

// RouterDeps junta lo que el router necesita del wiring de main.
type RouterDeps struct {
	Grants *grantsctrl.Controller

	// JWTSecret valida los bearer tokens del pipeline externo.
	JWTSecret string
	Sessions  mw.Sessions
}

// NewRouter registra todas las rutas.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", health.Healthz)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(deps.JWTSecret, deps.Sessions))
		r.Get("/grants", deps.Grants.List)
		r.Post("/grants/revoke", deps.Grants.Revoke)
	})

	return r
}
