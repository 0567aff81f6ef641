package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"sushi-shop-api/models"
)

// Seed is the bundled template dataset merged into empty or missing local
// state on every initialization.
type Seed struct {
	GeneratedAt *time.Time        `json:"generatedAt"`
	Site        models.SiteSettings `json:"site"`
	Banners     []models.Banner   `json:"banners"`
	Theme       map[string]string `json:"theme"`
	Categories  []models.Category `json:"categories"`
	Products    []models.Product  `json:"products"`
}

type SeedSource func(ctx context.Context) (*Seed, error)

// FileSeed reads the seed dataset from disk.
func FileSeed(path string) SeedSource {
	return func(ctx context.Context) (*Seed, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", path, err)
		}
		var seed Seed
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parse seed %s: %w", path, err)
		}
		return &seed, nil
	}
}

// HTTPSeed fetches the seed dataset from a URL.
func HTTPSeed(url string) SeedSource {
	return func(ctx context.Context) (*Seed, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("seed request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch seed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch seed: unexpected status %d", resp.StatusCode)
		}
		var seed Seed
		if err := json.NewDecoder(resp.Body).Decode(&seed); err != nil {
			return nil, fmt.Errorf("parse seed: %w", err)
		}
		return &seed, nil
	}
}

// StaticSeed wraps an in-memory dataset; used by tests.
func StaticSeed(seed *Seed) SeedSource {
	return func(ctx context.Context) (*Seed, error) {
		return seed, nil
	}
}
