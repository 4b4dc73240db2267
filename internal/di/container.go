// Package di provides a minimal service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read-only view of the container.
type ServiceRegistry interface {
	// Get returns the service registered under name, or nil.
	Get(name string) any
}

// Container registers services and lazy factories by name.
type Container interface {
	ServiceRegistry

	// Register stores an already-built service instance.
	Register(name string, svc any)

	// RegisterFactory stores a factory invoked once on first Get.
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.RWMutex
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = svc
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	svc, ok := c.services[name]
	c.mu.RUnlock()
	if ok {
		return svc
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the write lock: another goroutine may have built it.
	if svc, ok := c.services[name]; ok {
		return svc
	}
	factory, ok := c.factories[name]
	if !ok {
		return nil
	}
	svc = factory(c)
	c.services[name] = svc
	delete(c.factories, name)
	return svc
}

// Token is a typed service identifier.
type Token[T any] struct {
	name string
}

// NewToken creates a token for a service of type T.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory under the token's name.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service; panics on a missing or mistyped entry
// since that is always a wiring bug.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc := sr.Get(token.name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", token.name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, svc))
	}
	return typed
}
