package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRegistry(t *testing.T) {
	r := NewStaticRegistry(map[string]string{"springmvc": "http://localhost:8080/"})
	url, err := r.FindEndpoint(context.Background(), "springmvc")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", url)

	_, err = r.FindEndpoint(context.Background(), "pojo")
	assert.True(t, errors.Is(err, ErrNotFound))

	r.Add("pojo", "http://localhost:8081/")
	url, err = r.FindEndpoint(context.Background(), "pojo")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", url)
}

type failingRegistry struct{ err error }

func (f failingRegistry) FindEndpoint(context.Context, string) (string, error) { return "", f.err }

func TestChain(t *testing.T) {
	first := NewStaticRegistry(map[string]string{"a": "http://a"})
	second := NewStaticRegistry(map[string]string{"b": "http://b"})
	chain := Chain{first, second}

	url, err := chain.FindEndpoint(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "http://b", url)

	_, err = chain.FindEndpoint(context.Background(), "c")
	assert.True(t, errors.Is(err, ErrNotFound))

	broken := Chain{failingRegistry{err: errors.New("boom")}, second}
	_, err = broken.FindEndpoint(context.Background(), "b")
	assert.EqualError(t, err, "boom")
}

func instancesHandler(instances ...instance) http.Handler {
	data, _ := json.Marshal(instancesResponse{Instances: instances})
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	return httphelpers.HandlerWithResponse(200, headers, data)
}

func TestServiceCenterRegistryPicksFirstUpRestEndpoint(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(instancesHandler(
		instance{InstanceID: "1", Status: "DOWN", Endpoints: []string{"rest://10.0.0.1:8080"}},
		instance{InstanceID: "2", Status: "UP", Endpoints: []string{"highway://10.0.0.2:7070", "rest://10.0.0.2:8080?sslEnabled=false"}},
	))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		r := NewServiceCenterRegistry(server.URL, "springmvctest", nil)

		url, err := r.FindEndpoint(context.Background(), "springmvc")
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.2:8080", url)

		req := <-requests
		assert.Equal(t, instancesPath, req.Request.URL.Path)
		assert.Equal(t, "springmvctest", req.Request.URL.Query().Get("appId"))
		assert.Equal(t, "springmvc", req.Request.URL.Query().Get("serviceName"))

		// second lookup is served from the cache
		_, err = r.FindEndpoint(context.Background(), "springmvc")
		require.NoError(t, err)
		assert.Len(t, requests, 0)
	})
}

func TestServiceCenterRegistrySSLEndpoint(t *testing.T) {
	httphelpers.WithServer(instancesHandler(
		instance{Status: "UP", Endpoints: []string{"rest://10.0.0.3:8443?sslEnabled=true"}},
	), func(server *httptest.Server) {
		url, err := NewServiceCenterRegistry(server.URL, "app", nil).FindEndpoint(context.Background(), "springmvc")
		require.NoError(t, err)
		assert.Equal(t, "https://10.0.0.3:8443", url)
	})
}

func TestServiceCenterRegistryNotFound(t *testing.T) {
	httphelpers.WithServer(instancesHandler(), func(server *httptest.Server) {
		_, err := NewServiceCenterRegistry(server.URL, "app", nil).FindEndpoint(context.Background(), "springmvc")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
	httphelpers.WithServer(httphelpers.HandlerWithStatus(404), func(server *httptest.Server) {
		_, err := NewServiceCenterRegistry(server.URL, "app", nil).FindEndpoint(context.Background(), "springmvc")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestServiceCenterRegistryServerError(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(500), func(server *httptest.Server) {
		_, err := NewServiceCenterRegistry(server.URL, "app", nil).FindEndpoint(context.Background(), "springmvc")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}
