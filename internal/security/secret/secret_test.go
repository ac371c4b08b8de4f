package secret

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(h, "sha256$") {
		t.Fatalf("unexpected format: %q", h)
	}
	if strings.Contains(h, "secret") {
		t.Fatal("plaintext leaked into the hash")
	}
	if !Verify("secret", h) {
		t.Fatal("Verify should accept the original secret")
	}
	if Verify("other", h) {
		t.Fatal("Verify should reject a wrong secret")
	}
}

func TestHashUsesRandomSalt(t *testing.T) {
	a, err := Hash("same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash("same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same secret should differ (random salt)")
	}
}

func TestHashEmptySecret(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Fatal("empty secret should be rejected")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, h := range []string{
		"",
		"sha256$only-two",
		"md5$c2FsdA$ZGs",
		"sha256$!!notb64!!$ZGs",
		"sha256$c2FsdA$!!notb64!!",
	} {
		if Verify("secret", h) {
			t.Fatalf("malformed hash %q should not verify", h)
		}
	}
}
