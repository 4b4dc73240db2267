package app

import (
	"context"
	"sync"

	"github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/internal/logger"
)

// Registry holds the active providers in registration order. Iteration
// order is stable: it is the order providers were registered in, and
// downstream ranking relies on it for deterministic tie-breaking.
//
// Reads take a snapshot of the slice so Register can swap it without
// blocking in-flight quote fans.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	byName    map[string]Provider
	log       logger.LoggerInterface
}

func NewRegistry(log logger.LoggerInterface) *Registry {
	return &Registry{
		byName: make(map[string]Provider),
		log:    log,
	}
}

// Register appends a provider. Re-registering a name replaces the
// provider in place, keeping its original position.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, ok := r.byName[name]; ok {
		next := make([]Provider, len(r.providers))
		for i, existing := range r.providers {
			if existing.Name() == name {
				next[i] = p
			} else {
				next[i] = existing
			}
		}
		r.providers = next
	} else {
		next := make([]Provider, len(r.providers), len(r.providers)+1)
		copy(next, r.providers)
		r.providers = append(next, p)
	}
	r.byName[name] = p

	r.log.Info(context.Background(), "provider registered",
		"provider", name,
		"chains", p.SupportedChains(),
		"total", len(r.providers),
	)
}

// All returns the current provider snapshot in registration order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers
}

// ForChain returns providers supporting the given chain, preserving
// registration order.
func (r *Registry) ForChain(chain domain.Chain) []Provider {
	r.mu.RLock()
	snapshot := r.providers
	r.mu.RUnlock()

	var out []Provider
	for _, p := range snapshot {
		if domain.ContainsChain(p.SupportedChains(), chain) {
			out = append(out, p)
		}
	}
	return out
}

// Get looks a provider up by name.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// Len reports the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
