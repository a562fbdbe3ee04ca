// Package cse is an HTTP client for calling microservices the way a ServiceComb consumer does:
// URLs may name a microservice instead of a host ("cse://springmvc/path"), and every call
// carries an invocation context identifying the caller.
package cse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/servicecomb/springmvc-contract-tests/registry"
	"github.com/servicecomb/springmvc-contract-tests/servicedef"
)

// Scheme is the URL scheme that makes the client resolve the host part through the registry.
const Scheme = "cse"

const defaultTimeout = time.Second * 30

// Logger is the logging interface used by the client.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// Config holds the parameters for NewRestClient.
type Config struct {
	// Registry resolves cse:// URLs. If nil, only absolute http(s) URLs can be used.
	Registry registry.Registry

	// SourceMicroservice is the caller's name, added to every invocation context.
	SourceMicroservice string

	// TestRunID, if set, is sent in the X-Test-Run-Id header.
	TestRunID string

	// HTTPClient defaults to a client with a 30-second timeout.
	HTTPClient *http.Client

	Logger Logger
}

// RestClient makes REST calls to microservices. It is the analogue of a RestTemplate that has
// been wired to a service registry.
type RestClient struct {
	registry   registry.Registry
	source     string
	testRunID  string
	httpClient *http.Client
	logger     Logger
}

func NewRestClient(config Config) *RestClient {
	c := &RestClient{
		registry:   config.Registry,
		source:     config.SourceMicroservice,
		testRunID:  config.TestRunID,
		httpClient: config.HTTPClient,
		logger:     config.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.logger == nil {
		c.logger = nullLogger{}
	}
	return c
}

// SourceMicroservice returns the name this client sends as the caller's microservice.
func (c *RestClient) SourceMicroservice() string {
	return c.source
}

// WithLogger returns a copy of the client that logs to a different logger.
func (c *RestClient) WithLogger(logger Logger) *RestClient {
	c1 := *c
	if logger == nil {
		logger = nullLogger{}
	}
	c1.logger = logger
	return &c1
}

// Resolve turns a cse:// URL into an http URL by looking up the microservice in the registry.
// Other URLs are returned unchanged apart from collapsing repeated slashes in the path. Escaped
// slashes ("%2F") are data, and are left alone.
func (c *RestClient) Resolve(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	escapedPath := collapseSlashes(u.EscapedPath())
	if u.Scheme != Scheme {
		path, err := url.PathUnescape(escapedPath)
		if err != nil {
			return "", err
		}
		u.Path, u.RawPath = path, escapedPath
		return u.String(), nil
	}
	if c.registry == nil {
		return "", fmt.Errorf("cannot resolve %q: no registry configured", rawURL)
	}
	base, err := c.registry.FindEndpoint(ctx, u.Host)
	if err != nil {
		return "", err
	}
	resolved := strings.TrimSuffix(base, "/") + escapedPath
	if u.RawQuery != "" {
		resolved += "?" + u.RawQuery
	}
	return resolved, nil
}

// JoinURL appends a path to a URL prefix with exactly one slash between them, whether or not
// the prefix ends with one or the path starts with one.
func JoinURL(prefix, path string) string {
	if path == "" {
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}

func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// Exchange sends a request and decodes a successful response body into out. The returned
// ResponseEntity is non-nil whenever a response was received, even if err is non-nil.
func (c *RestClient) Exchange(
	ctx context.Context,
	method string,
	rawURL string,
	entity *HTTPEntity,
	out interface{},
) (*ResponseEntity, error) {
	resp, err := c.Do(ctx, method, rawURL, entity)
	if err != nil {
		return resp, err
	}
	if err := resp.Decode(out); err != nil {
		return resp, &RequestError{Method: method, URL: rawURL, Err: fmt.Errorf("decoding response body: %w", err)}
	}
	return resp, nil
}

// GetForObject sends a GET request and decodes the response body into out.
func (c *RestClient) GetForObject(ctx context.Context, rawURL string, out interface{}) error {
	_, err := c.Exchange(ctx, http.MethodGet, rawURL, nil, out)
	return err
}

// PostForObject sends a POST request and decodes the response body into out.
func (c *RestClient) PostForObject(ctx context.Context, rawURL string, entity *HTTPEntity, out interface{}) error {
	_, err := c.Exchange(ctx, http.MethodPost, rawURL, entity, out)
	return err
}

// PostForEntity sends a POST request and returns the whole response.
func (c *RestClient) PostForEntity(ctx context.Context, rawURL string, entity *HTTPEntity) (*ResponseEntity, error) {
	return c.Do(ctx, http.MethodPost, rawURL, entity)
}

// Do sends a request. A response with a non-2xx status is returned along with an error chain
// of *RequestError, *InvocationError, and *ServiceError.
func (c *RestClient) Do(ctx context.Context, method, rawURL string, entity *HTTPEntity) (*ResponseEntity, error) {
	if entity == nil {
		entity = &HTTPEntity{}
	}
	wrap := func(err error) error {
		return &RequestError{Method: method, URL: rawURL, Err: err}
	}

	target, err := c.Resolve(ctx, rawURL)
	if err != nil {
		return nil, wrap(err)
	}
	body, contentType, err := encodeBody(entity.Body)
	if err != nil {
		return nil, wrap(fmt.Errorf("encoding request body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, wrap(err)
	}
	for name, values := range entity.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	invocationContext := c.invocationContext(entity)
	encodedContext, err := invocationContext.Encode()
	if err != nil {
		return nil, wrap(err)
	}
	req.Header.Set(servicedef.HeaderContext, encodedContext)
	if c.testRunID != "" {
		req.Header.Set(servicedef.HeaderTestRunID, c.testRunID)
	}

	c.logger.Printf("%s %s context=%s", method, target, invocationContext)
	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrap(err)
	}
	defer httpResp.Body.Close()
	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, wrap(fmt.Errorf("reading response body: %w", err))
	}
	c.logger.Printf("%s %s -> %d (%s) %s", method, target, httpResp.StatusCode, time.Since(start), string(respBody))

	resp := &ResponseEntity{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, wrap(newInvocationError(httpResp.StatusCode, http.StatusText(httpResp.StatusCode), respBody))
	}
	return resp, nil
}

func (c *RestClient) invocationContext(entity *HTTPEntity) servicedef.InvocationContext {
	ret := entity.Context.Clone()
	if c.source != "" {
		ret[servicedef.ContextSourceMicroservice] = c.source
	}
	return ret
}

func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "text/plain; charset=utf-8", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case *Multipart:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
