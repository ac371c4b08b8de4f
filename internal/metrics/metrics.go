// Package metrics registra los contadores Prometheus del core.
// Se exponen en el listener de métricas vía promhttp (ver cmd/helloid).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SeedAttempts cuenta intentos de bootstrap (exitosos o no).
	SeedAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helloid_seed_attempts_total",
		Help: "Bootstrap seed attempts, successful or not.",
	})

	// SeedFailures cuenta intentos de bootstrap fallidos.
	SeedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helloid_seed_attempt_failures_total",
		Help: "Bootstrap seed attempts that failed and were retried.",
	})

	// ClaimsResolved cuenta resoluciones de claims por token request.
	ClaimsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helloid_profile_claims_resolved_total",
		Help: "Successful claim-set resolutions for token issuance.",
	})

	// SessionChecks cuenta checks de sesión por resultado (active|inactive).
	SessionChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helloid_profile_session_checks_total",
		Help: "IsSessionActive evaluations by result.",
	}, []string{"result"})

	// GrantsRevoked cuenta revocaciones de consents pedidas por usuarios.
	GrantsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helloid_grants_revoked_total",
		Help: "User-initiated consent grant revocations.",
	})
)
