package grants_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/grants"
	"github.com/dropDatabas3/helloid/internal/store/memory"
)

const subject = "11111111-1111-1111-1111-111111111111"

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	err := st.AddAll(ctx, []repository.Client{
		{
			ClientID:  "mvc",
			Name:      "MVC Client",
			LogoURI:   "http://localhost:5002/logo.png",
			ClientURI: "http://localhost:5002",
		},
		{ClientID: "cli"}, // sin Name: el listado cae al client id
	})
	if err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if err := st.AddIdentity(ctx, []repository.IdentityResource{
		{Name: "openid", DisplayName: "Your user identifier"},
		{Name: "profile"}, // sin DisplayName: cae al Name
	}); err != nil {
		t.Fatalf("AddIdentity: %v", err)
	}
	if err := st.AddAPI(ctx, []repository.APIResource{
		{Name: "api1", DisplayName: "My API"},
		{Name: "api2"},
	}); err != nil {
		t.Fatalf("AddAPI: %v", err)
	}
	return st
}

func TestListJoinsClientAndResourceMetadata(t *testing.T) {
	st := seededStore(t)
	exp := time.Now().Add(24 * time.Hour)
	st.AddConsent(repository.Consent{
		SubjectID:  subject,
		ClientID:   "mvc",
		Scopes:     []string{"openid", "profile", "api1"},
		Expiration: &exp,
	})
	st.AddConsent(repository.Consent{
		SubjectID: subject,
		ClientID:  "cli",
		Scopes:    []string{"api2"},
	})

	m := grants.NewManager(st, st, st)
	views, err := m.List(context.Background(), subject)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}

	mvc := views[0]
	if mvc.ClientName != "MVC Client" || mvc.ClientLogoURL != "http://localhost:5002/logo.png" {
		t.Fatalf("mvc view = %+v", mvc)
	}
	if mvc.Expires == nil || !mvc.Expires.Equal(exp) {
		t.Fatalf("mvc.Expires = %v, want %v", mvc.Expires, exp)
	}
	if len(mvc.IdentityGrantNames) != 2 ||
		mvc.IdentityGrantNames[0] != "Your user identifier" ||
		mvc.IdentityGrantNames[1] != "profile" {
		t.Fatalf("mvc.IdentityGrantNames = %v", mvc.IdentityGrantNames)
	}
	if len(mvc.APIGrantNames) != 1 || mvc.APIGrantNames[0] != "My API" {
		t.Fatalf("mvc.APIGrantNames = %v", mvc.APIGrantNames)
	}

	cli := views[1]
	if cli.ClientName != "cli" {
		t.Fatalf("clients without display name must fall back to the id, got %q", cli.ClientName)
	}
	if len(cli.APIGrantNames) != 1 || cli.APIGrantNames[0] != "api2" {
		t.Fatalf("cli.APIGrantNames = %v", cli.APIGrantNames)
	}
}

func TestListDropsGrantsOfDeletedClients(t *testing.T) {
	st := seededStore(t)
	st.AddConsent(repository.Consent{SubjectID: subject, ClientID: "mvc", Scopes: []string{"openid"}})
	st.AddConsent(repository.Consent{SubjectID: subject, ClientID: "cli", Scopes: []string{"api2"}})

	st.RemoveClient("mvc")

	m := grants.NewManager(st, st, st)
	views, err := m.List(context.Background(), subject)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 || views[0].ClientID != "cli" {
		t.Fatalf("views = %+v, want only cli", views)
	}

	// El registro sigue en el grant store; solo es invisible en el listado.
	stored, err := st.ListBySubject(context.Background(), subject)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("consents in store = %d, want 2", len(stored))
	}
}

func TestListPreservesStoreOrder(t *testing.T) {
	st := seededStore(t)
	st.AddConsent(repository.Consent{SubjectID: subject, ClientID: "cli", Scopes: []string{"api2"}})
	st.AddConsent(repository.Consent{SubjectID: subject, ClientID: "mvc", Scopes: []string{"openid"}})

	m := grants.NewManager(st, st, st)
	views, err := m.List(context.Background(), subject)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 || views[0].ClientID != "cli" || views[1].ClientID != "mvc" {
		t.Fatalf("order not preserved: %+v", views)
	}
}

func TestListEmptySubject(t *testing.T) {
	st := seededStore(t)
	m := grants.NewManager(st, st, st)

	views, err := m.List(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("views = %+v, want empty", views)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	st := seededStore(t)
	st.AddConsent(repository.Consent{SubjectID: subject, ClientID: "mvc", Scopes: []string{"openid"}})

	m := grants.NewManager(st, st, st)
	ctx := context.Background()

	if err := m.Revoke(ctx, subject, "mvc"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	views, err := m.List(ctx, subject)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("grant still listed after revoke: %+v", views)
	}

	// Revocar lo ya revocado no es error.
	if err := m.Revoke(ctx, subject, "mvc"); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if err := m.Revoke(ctx, subject, "never-existed"); err != nil {
		t.Fatalf("Revoke of unknown grant: %v", err)
	}
}
