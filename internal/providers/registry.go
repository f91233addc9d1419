// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package providers contains the provider adapter registry and the adapters
// for the supported conferencing platforms.
package providers

import (
	"sync"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/providers/webex"
	"github.com/openconf/meeting-lifecycle-service/internal/providers/zoom"
)

// Registry implements the [domain.ProviderRegistry] interface
type Registry struct {
	adapters map[string]domain.ProviderAdapter
	mu       sync.RWMutex
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]domain.ProviderAdapter),
	}
}

// NewDefaultRegistry creates a registry with all supported provider adapters
// registered.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.RegisterAdapter(models.PlatformZoom, zoom.NewAdapter())
	registry.RegisterAdapter(models.PlatformWebex, webex.NewAdapter())
	return registry
}

// GetAdapter returns the provider adapter for the specified platform name
func (r *Registry) GetAdapter(platform string) (domain.ProviderAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[platform]
	if !exists {
		return nil, domain.NewNotFoundError("provider adapter not found: " + platform)
	}

	return adapter, nil
}

// RegisterAdapter registers a provider adapter
func (r *Registry) RegisterAdapter(platform string, adapter domain.ProviderAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[platform] = adapter
}
