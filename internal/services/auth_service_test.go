package services_test

import (
	"errors"
	"strings"
	"testing"

	"tiendita/internal/repos"
	"tiendita/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	return &services.AuthService{Users: repos.NewUserRepo(db), Secret: []byte("test-secret")}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	auth := newAuth(t)

	token, err := auth.Login("admin@tiendita.test", "Admin123!")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := auth.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != "ADMIN" || claims.Subject != "u-admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	auth := newAuth(t)

	if _, err := auth.Login("admin@tiendita.test", "wrong-password"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := auth.Login("nobody@tiendita.test", "Admin123!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for unknown user, got %v", err)
	}
}

func TestVerifyRejectsGarbageAndTampering(t *testing.T) {
	auth := newAuth(t)

	if _, err := auth.Verify("not.a.token"); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken, got %v", err)
	}

	token, err := auth.Login("admin@tiendita.test", "Admin123!")
	if err != nil {
		t.Fatal(err)
	}
	// flip the signature
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := auth.Verify(tampered); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken for tampered token, got %v", err)
	}

	// token signed with a different secret
	other := &services.AuthService{Users: auth.Users, Secret: []byte("other-secret")}
	foreign, err := other.Login("admin@tiendita.test", "Admin123!")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Verify(foreign); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken for foreign secret, got %v", err)
	}
}
