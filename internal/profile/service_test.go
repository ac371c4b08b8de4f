package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/store/memory"
)

func createUser(t *testing.T, st *memory.Store, username string, claims ...repository.Claim) *repository.User {
	t.Helper()
	u, err := st.Create(context.Background(), repository.CreateUserInput{
		UserName: username,
		Email:    username + "@email.com",
		Password: "Pass123$",
		Claims:   claims,
	})
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

func principalFor(u *repository.User, extra ...repository.Claim) *repository.Principal {
	p := &repository.Principal{Claims: []repository.Claim{
		{Type: repository.ClaimSubject, Value: u.ID},
	}}
	p.Claims = append(p.Claims, extra...)
	return p
}

func hasClaim(claims []repository.Claim, typ, value string) bool {
	for _, c := range claims {
		if c.Type == typ && c.Value == value {
			return true
		}
	}
	return false
}

func TestResolveClaimsMissingSubject(t *testing.T) {
	svc := NewService(memory.New(), StandardFactory{})

	if _, err := svc.ResolveClaims(context.Background(), nil); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("nil principal: want ErrMissingSubject, got %v", err)
	}
	p := &repository.Principal{Claims: []repository.Claim{{Type: "email", Value: "x@email.com"}}}
	if _, err := svc.ResolveClaims(context.Background(), p); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("no sub claim: want ErrMissingSubject, got %v", err)
	}
}

func TestResolveClaimsUnknownSubject(t *testing.T) {
	svc := NewService(memory.New(), StandardFactory{})

	p := &repository.Principal{Claims: []repository.Claim{{Type: repository.ClaimSubject, Value: "nope"}}}
	if _, err := svc.ResolveClaims(context.Background(), p); !errors.Is(err, ErrUnknownSubject) {
		t.Fatalf("want ErrUnknownSubject, got %v", err)
	}
}

func TestResolveClaimsBaseSet(t *testing.T) {
	st := memory.New()
	u := createUser(t, st, "bob",
		repository.Claim{Type: repository.ClaimName, Value: "Bob Smith"},
		repository.Claim{Type: repository.ClaimEmail, Value: "bob@email.com"},
	)
	svc := NewService(st, StandardFactory{})

	claims, err := svc.ResolveClaims(context.Background(), principalFor(u))
	if err != nil {
		t.Fatalf("ResolveClaims: %v", err)
	}
	if !hasClaim(claims, repository.ClaimSubject, u.ID) {
		t.Fatal("missing sub claim")
	}
	if !hasClaim(claims, repository.ClaimPreferredUser, "bob") {
		t.Fatal("missing preferred_username claim")
	}
	if !hasClaim(claims, repository.ClaimName, "Bob Smith") || !hasClaim(claims, repository.ClaimEmail, "bob@email.com") {
		t.Fatalf("store claims not included: %v", claims)
	}
}

func TestResolveClaimsContributors(t *testing.T) {
	st := memory.New()
	u := createUser(t, st, "alice")
	svc := NewService(st, StandardFactory{},
		StaticContributor{{Type: "tier", Value: "gold"}},
		StaticContributor{{Type: "tenant", Value: "acme"}},
	)

	claims, err := svc.ResolveClaims(context.Background(), principalFor(u))
	if err != nil {
		t.Fatalf("ResolveClaims: %v", err)
	}
	if !hasClaim(claims, "tier", "gold") || !hasClaim(claims, "tenant", "acme") {
		t.Fatalf("contributor claims missing: %v", claims)
	}
}

func TestResolveClaimsDeduplicates(t *testing.T) {
	st := memory.New()
	u := createUser(t, st, "carol",
		repository.Claim{Type: repository.ClaimEmail, Value: "carol@email.com"},
		repository.Claim{Type: repository.ClaimEmail, Value: "carol@email.com"},
	)
	// El contributor repite un claim que ya viene del store.
	svc := NewService(st, StandardFactory{},
		StaticContributor{{Type: repository.ClaimEmail, Value: "carol@email.com"}},
	)

	claims, err := svc.ResolveClaims(context.Background(), principalFor(u))
	if err != nil {
		t.Fatalf("ResolveClaims: %v", err)
	}
	n := 0
	for _, c := range claims {
		if c.Type == repository.ClaimEmail && c.Value == "carol@email.com" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("duplicate claim appears %d times, want 1", n)
	}
}

func TestIsSessionActiveUnknownSubject(t *testing.T) {
	svc := NewService(memory.New(), StandardFactory{})

	p := &repository.Principal{Claims: []repository.Claim{{Type: repository.ClaimSubject, Value: "ghost"}}}
	active, err := svc.IsSessionActive(context.Background(), p)
	if err != nil {
		t.Fatalf("unknown subject should not be an error: %v", err)
	}
	if active {
		t.Fatal("unknown subject should be inactive")
	}
}

func TestIsSessionActiveMissingSubject(t *testing.T) {
	svc := NewService(memory.New(), StandardFactory{})

	if _, err := svc.IsSessionActive(context.Background(), nil); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("want ErrMissingSubject, got %v", err)
	}
}

func TestIsSessionActiveStampVeto(t *testing.T) {
	st := memory.New()
	u := createUser(t, st, "dave")
	svc := NewService(st, StandardFactory{})
	ctx := context.Background()

	stale := principalFor(u, repository.Claim{Type: repository.ClaimSecurityStamp, Value: u.SecurityStamp})
	st.RotateSecurityStamp(u.ID)

	// Stamp viejo: veto absoluto aunque no haya lockout.
	active, err := svc.IsSessionActive(ctx, stale)
	if err != nil {
		t.Fatalf("IsSessionActive: %v", err)
	}
	if active {
		t.Fatal("stale security stamp must deactivate the session")
	}

	// Con el stamp vigente vuelve a estar activa.
	current, err := st.SecurityStamp(ctx, u.ID)
	if err != nil {
		t.Fatalf("SecurityStamp: %v", err)
	}
	fresh := principalFor(u, repository.Claim{Type: repository.ClaimSecurityStamp, Value: current})
	active, err = svc.IsSessionActive(ctx, fresh)
	if err != nil {
		t.Fatalf("IsSessionActive: %v", err)
	}
	if !active {
		t.Fatal("matching stamp should be active")
	}
}

func TestIsSessionActiveStampVetoBeatsLockout(t *testing.T) {
	st := memory.New()
	u := createUser(t, st, "erin")
	svc := NewService(st, StandardFactory{})

	stale := principalFor(u, repository.Claim{Type: repository.ClaimSecurityStamp, Value: u.SecurityStamp})
	st.RotateSecurityStamp(u.ID)
	// Lockout apagado: por lockout la sesión sería válida, pero el stamp manda.
	st.SetLockout(u.ID, false, nil)

	active, err := svc.IsSessionActive(context.Background(), stale)
	if err != nil {
		t.Fatalf("IsSessionActive: %v", err)
	}
	if active {
		t.Fatal("stamp veto must short-circuit before the lockout check")
	}
}

func TestIsSessionActiveLockout(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name    string
		enabled bool
		end     *time.Time
		want    bool
	}{
		{"lockout disabled", false, &future, true},
		{"enabled without end", true, nil, true},
		{"enabled, end in the past", true, &past, true},
		{"enabled, end in the future", true, &future, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := memory.New()
			u := createUser(t, st, "user-"+tc.name)
			st.SetLockout(u.ID, tc.enabled, tc.end)

			svc := NewService(st, StandardFactory{})
			svc.now = func() time.Time { return now }

			active, err := svc.IsSessionActive(context.Background(), principalFor(u))
			if err != nil {
				t.Fatalf("IsSessionActive: %v", err)
			}
			if active != tc.want {
				t.Fatalf("active = %v, want %v", active, tc.want)
			}
		})
	}
}

func TestIsSessionActiveWithoutStampClaim(t *testing.T) {
	st := memory.New()
	u := createUser(t, st, "frank")
	st.RotateSecurityStamp(u.ID)

	svc := NewService(st, StandardFactory{})
	// Sin claim de stamp en el principal no hay veto: decide el lockout.
	active, err := svc.IsSessionActive(context.Background(), principalFor(u))
	if err != nil {
		t.Fatalf("IsSessionActive: %v", err)
	}
	if !active {
		t.Fatal("no stamp claim: session should fall through to the lockout check")
	}
}

func TestIsSessionActiveStoreWithoutStamps(t *testing.T) {
	st := memory.New()
	st.StampsSupported = false
	u := createUser(t, st, "grace")

	stale := principalFor(u, repository.Claim{Type: repository.ClaimSecurityStamp, Value: "whatever"})
	svc := NewService(st, StandardFactory{})

	active, err := svc.IsSessionActive(context.Background(), stale)
	if err != nil {
		t.Fatalf("IsSessionActive: %v", err)
	}
	if !active {
		t.Fatal("stores without stamp support must skip the stamp check")
	}
}
