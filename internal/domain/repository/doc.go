// Package repository define los tipos de dominio y las interfaces de
// persistencia que consume el core (seed, profile, grants).
//
// Las implementaciones viven en internal/store/* (pg, memory). El core
// nunca habla SQL directamente: siempre a través de estas interfaces.
package repository
