// Package secret implementa hashing de client secrets.
//
// A diferencia de los passwords de usuarios (argon2id, ver security/password),
// los client secrets se comparan en cada token request, así que usamos
// SHA-256 con salt: barato de verificar y nunca se guarda plaintext.
// Formato: sha256$<saltB64>$<digestB64>
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
)

const saltLen = 16

// Hash retorna el hash con salt del secret.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty secret")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return encode(salt, digest(salt, plain)), nil
}

// Verify compara plain contra un hash producido por Hash.
func Verify(plain, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != "sha256" {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(digest(salt, plain), want) == 1
}

func digest(salt []byte, plain string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(plain))
	return h.Sum(nil)
}

func encode(salt, dk []byte) string {
	return "sha256$" + base64.RawStdEncoding.EncodeToString(salt) +
		"$" + base64.RawStdEncoding.EncodeToString(dk)
}
