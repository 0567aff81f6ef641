package repository

import (
	"context"
	"log"
)

// Repository is the single entry point callers use. The active provider is
// chosen once at construction; if the remote provider fails to initialize the
// facade permanently falls back to the local provider for the rest of the
// session and records why.
type Repository struct {
	Provider

	mode        string
	fallbackErr error
}

// New binds the active provider. Pass remote as nil to force local mode.
func New(ctx context.Context, local *LocalProvider, remote Provider) (*Repository, error) {
	if remote != nil {
		err := remote.Init(ctx)
		if err == nil {
			return &Repository{Provider: remote, mode: "remote"}, nil
		}
		log.Printf("remote provider init failed, falling back to local: %v", err)
		if initErr := local.Init(ctx); initErr != nil {
			return nil, initErr
		}
		return &Repository{Provider: local, mode: "local", fallbackErr: err}, nil
	}

	if err := local.Init(ctx); err != nil {
		return nil, err
	}
	return &Repository{Provider: local, mode: "local"}, nil
}

// Mode reports which provider is active: "local" or "remote".
func (r *Repository) Mode() string {
	return r.mode
}

// FallbackErr returns the remote init error when the facade fell back to the
// local provider, nil otherwise.
func (r *Repository) FallbackErr() error {
	return r.fallbackErr
}
