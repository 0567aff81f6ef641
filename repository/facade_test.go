package repository

import (
	"context"
	"path/filepath"
	"testing"

	"sushi-shop-api/storage"
)

func TestFacadeLocalMode(t *testing.T) {
	local := NewLocalProvider(storage.NewMemoryStorage(), StaticSeed(testSeed()), LocalConfig{
		AdminLogin: "admin", AdminPassword: "admin123",
	})

	repo, err := New(context.Background(), local, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if repo.Mode() != "local" {
		t.Errorf("mode = %q, want local", repo.Mode())
	}
	if repo.FallbackErr() != nil {
		t.Errorf("fallbackErr = %v, want nil", repo.FallbackErr())
	}
}

func TestFacadeRemoteMode(t *testing.T) {
	local := NewLocalProvider(storage.NewMemoryStorage(), StaticSeed(testSeed()), LocalConfig{
		AdminLogin: "admin", AdminPassword: "admin123",
	})
	remote := NewRemoteProvider(RemoteConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "remote.db"),
	})

	repo, err := New(context.Background(), local, remote)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if repo.Mode() != "remote" {
		t.Errorf("mode = %q, want remote", repo.Mode())
	}
}

// A remote backend that cannot come up is silently replaced by the local
// provider; the reason is kept for the provider info endpoint.
func TestFacadeFallsBackToLocal(t *testing.T) {
	local := NewLocalProvider(storage.NewMemoryStorage(), StaticSeed(testSeed()), LocalConfig{
		AdminLogin: "admin", AdminPassword: "admin123",
	})
	remote := NewRemoteProvider(RemoteConfig{
		Driver: "mysql",
		DSN:    "not a valid dsn",
	})

	repo, err := New(context.Background(), local, remote)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if repo.Mode() != "local" {
		t.Errorf("mode = %q, want local", repo.Mode())
	}
	if repo.FallbackErr() == nil {
		t.Error("fallbackErr must record the remote init failure")
	}

	// Reads keep working through the fallback.
	categories, err := repo.ListCategories(context.Background(), true)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) == 0 {
		t.Error("local data must be served after fallback")
	}
}
