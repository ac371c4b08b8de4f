// Package cache provee un cache chico de bytes con TTL, multi-backend.
//
// Soporta:
//   - memory (in-process, go-cache) para desarrollo/testing
//   - redis (distribuido) para producción
//
// El consumidor principal es internal/store/cached (metadata de clients
// y resources para el grant manager).
package cache

import "time"

// Cache define las operaciones mínimas que consume el resto del sistema.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
