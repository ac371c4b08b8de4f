// Package health expone el healthcheck del proceso.
package health

import (
	"net/http"

	"github.com/dropDatabas3/helloid/internal/http/httpx"
)

// Healthz responde 200 con el estado del proceso. No toca los stores:
// un store caído no debe tirar el liveness (el seed ya maneja su retry).
func Healthz(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
