package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const (
	instancesPath  = "/v4/default/registry/instances"
	defaultVersion = "0+"
	statusUp       = "UP"
	restScheme     = "rest"
)

// ServiceCenterRegistry looks up microservice instances in a ServiceComb service-center.
// Endpoints are cached per microservice for the lifetime of the registry, since a test run
// talks to one set of instances.
type ServiceCenterRegistry struct {
	baseURL string
	appID   string
	version string
	client  *http.Client
	cache   map[string]string
	lock    sync.Mutex
}

type instancesResponse struct {
	Instances []instance `json:"instances"`
}

type instance struct {
	InstanceID string   `json:"instanceId"`
	Status     string   `json:"status"`
	Endpoints  []string `json:"endpoints"`
}

// NewServiceCenterRegistry creates a registry client. If client is nil, http.DefaultClient is used.
func NewServiceCenterRegistry(baseURL, appID string, client *http.Client) *ServiceCenterRegistry {
	if client == nil {
		client = http.DefaultClient
	}
	return &ServiceCenterRegistry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		appID:   appID,
		version: defaultVersion,
		client:  client,
		cache:   make(map[string]string),
	}
}

func (r *ServiceCenterRegistry) FindEndpoint(ctx context.Context, microserviceName string) (string, error) {
	r.lock.Lock()
	cached, ok := r.cache[microserviceName]
	r.lock.Unlock()
	if ok {
		return cached, nil
	}

	instances, err := r.queryInstances(ctx, microserviceName)
	if err != nil {
		return "", err
	}
	for _, inst := range instances {
		if inst.Status != "" && inst.Status != statusUp {
			continue
		}
		for _, e := range inst.Endpoints {
			if u, ok := restEndpointURL(e); ok {
				r.lock.Lock()
				r.cache[microserviceName] = u
				r.lock.Unlock()
				return u, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no UP instance of %q has a REST endpoint", ErrNotFound, microserviceName)
}

func (r *ServiceCenterRegistry) queryInstances(ctx context.Context, microserviceName string) ([]instance, error) {
	query := url.Values{}
	query.Set("appId", r.appID)
	query.Set("serviceName", microserviceName)
	query.Set("version", r.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+instancesPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Domain-Name", "default")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("service-center query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, microserviceName)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading service-center response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service-center returned HTTP status %d: %s", resp.StatusCode, string(data))
	}
	var parsed instancesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("malformed service-center response: %s", string(data))
	}
	return parsed.Instances, nil
}

// restEndpointURL converts a registered endpoint like "rest://10.0.0.1:8080?sslEnabled=true"
// into a base URL. Endpoints for other transports are rejected.
func restEndpointURL(endpoint string) (string, bool) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != restScheme || u.Host == "" {
		return "", false
	}
	scheme := "http"
	if u.Query().Get("sslEnabled") == "true" {
		scheme = "https"
	}
	return scheme + "://" + u.Host, true
}
