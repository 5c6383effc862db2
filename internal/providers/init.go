// Package providers wires the concrete data providers into a registry.
package providers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/internal/providers/ishares"
)

// NewRegistry creates a registry with all available providers registered.
func NewRegistry() (*provider.Registry, error) {
	reg := provider.NewRegistry()
	if err := RegisterAllTo(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// RegisterAllTo registers all available providers to the given registry.
func RegisterAllTo(reg *provider.Registry) error {
	// --- iShares (free, no API key) ---
	ish := ishares.New()
	if err := ish.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(ish); err != nil {
		return err
	}

	return nil
}

// PingAll verifies connectivity of every registered provider concurrently.
// Download paths stay strictly sequential; this is a health check only.
func PingAll(ctx context.Context, reg *provider.Registry) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, info := range reg.List() {
		p, err := reg.Get(info.Name)
		if err != nil {
			return err
		}
		name := info.Name
		g.Go(func() error {
			if err := p.Ping(ctx); err != nil {
				return fmt.Errorf("ping %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
