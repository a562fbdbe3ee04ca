// Package registry finds the network endpoint of a microservice by name.
//
// It is a consumer of a registry, not a registry: StaticRegistry answers from a fixed table
// and ServiceCenterRegistry asks a ServiceComb service-center.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotFound is returned when no instance of the requested microservice is known.
var ErrNotFound = errors.New("microservice not found in registry")

// Registry resolves a microservice name to a base URL such as "http://10.0.0.1:8080".
type Registry interface {
	FindEndpoint(ctx context.Context, microserviceName string) (string, error)
}

// StaticRegistry is a fixed table of microservice endpoints.
type StaticRegistry struct {
	endpoints map[string]string
	lock      sync.RWMutex
}

func NewStaticRegistry(endpoints map[string]string) *StaticRegistry {
	r := &StaticRegistry{endpoints: make(map[string]string)}
	for name, url := range endpoints {
		r.Add(name, url)
	}
	return r
}

// Add registers or replaces the endpoint of a microservice.
func (r *StaticRegistry) Add(microserviceName, url string) {
	r.lock.Lock()
	r.endpoints[microserviceName] = strings.TrimSuffix(url, "/")
	r.lock.Unlock()
}

func (r *StaticRegistry) FindEndpoint(ctx context.Context, microserviceName string) (string, error) {
	r.lock.RLock()
	url, ok := r.endpoints[microserviceName]
	r.lock.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, microserviceName)
	}
	return url, nil
}

// Chain tries each registry in turn and returns the first endpoint found. Errors other than
// ErrNotFound stop the search.
type Chain []Registry

func (c Chain) FindEndpoint(ctx context.Context, microserviceName string) (string, error) {
	for _, r := range c {
		url, err := r.FindEndpoint(ctx, microserviceName)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, microserviceName)
}
