package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/servicecomb/springmvc-contract-tests/cse"
	"github.com/servicecomb/springmvc-contract-tests/registry"
)

const (
	defaultRequestTimeout = time.Second * 30
	providerPollInterval  = time.Millisecond * 100
)

// HarnessConfig holds the parameters for NewTestHarness.
type HarnessConfig struct {
	// Registry resolves microservice names. It is required.
	Registry registry.Registry

	// SourceMicroservice is the name the harness presents as the caller.
	SourceMicroservice string

	// Provider is the microservice under test, and BasePath the path of its schema.
	Provider string
	BasePath string

	TestRunID string

	// RequestTimeout applies to each call; StartupTimeout bounds the wait for the provider.
	RequestTimeout time.Duration
	StartupTimeout time.Duration

	// DebugLogger receives request/response traces; ErrorLogger receives errors that tests
	// swallow rather than report as failures.
	DebugLogger Logger
	ErrorLogger Logger
}

// TestHarness is the shared environment of a test run: a REST client wired to the registry,
// and the address of the provider under test.
type TestHarness struct {
	config       HarnessConfig
	httpClient   *http.Client
	client       *cse.RestClient
	providerInfo ProviderInfo
}

// NewTestHarness creates a TestHarness, and verifies that the provider can be resolved and is
// responding before any tests run. Progress is written to startupOutput.
func NewTestHarness(config HarnessConfig, startupOutput io.Writer) (*TestHarness, error) {
	if config.Registry == nil {
		return nil, errors.New("a registry is required")
	}
	if config.Provider == "" {
		return nil, errors.New("a provider microservice name is required")
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}
	if config.DebugLogger == nil {
		config.DebugLogger = NullLogger()
	}
	if config.ErrorLogger == nil {
		config.ErrorLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}

	h := &TestHarness{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
	h.client = cse.NewRestClient(cse.Config{
		Registry:           config.Registry,
		SourceMicroservice: config.SourceMicroservice,
		TestRunID:          config.TestRunID,
		HTTPClient:         h.httpClient,
		Logger:             config.DebugLogger,
	})

	info, err := awaitProvider(config.Registry, h.httpClient, config.Provider, config.StartupTimeout, startupOutput)
	if err != nil {
		return nil, err
	}
	h.providerInfo = info
	return h, nil
}

// Client returns a REST client that logs to the specified logger, such as the debug logger of
// a test.
func (h *TestHarness) Client(logger Logger) *cse.RestClient {
	if logger == nil {
		return h.client
	}
	return h.client.WithLogger(logger)
}

func (h *TestHarness) SourceMicroservice() string {
	return h.config.SourceMicroservice
}

func (h *TestHarness) ProviderInfo() ProviderInfo {
	return h.providerInfo
}

// URLPrefix is the cse:// URL of the provider's schema, such as
// "cse://springmvc/codeFirstSpringmvc".
func (h *TestHarness) URLPrefix() string {
	return cse.JoinURL(cse.Scheme+"://"+h.config.Provider, h.config.BasePath)
}

// ErrorLogger returns the logger for errors that are reported but do not fail a test.
func (h *TestHarness) ErrorLogger() Logger {
	return h.config.ErrorLogger
}

// ProviderInfo describes the provider instance found at startup.
type ProviderInfo struct {
	Name     string
	Endpoint string
	Status   int
}

func awaitProvider(
	reg registry.Registry,
	client *http.Client,
	name string,
	timeout time.Duration,
	output io.Writer,
) (ProviderInfo, error) {
	fmt.Fprintf(output, "Looking for microservice %q", name)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		info, err := queryProvider(reg, client, name)
		if err == nil {
			fmt.Fprintln(output)
			fmt.Fprintf(output, "Found %s at %s (HTTP %d)\n", info.Name, info.Endpoint, info.Status)
			return info, nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return ProviderInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(providerPollInterval)
	}
}

// queryProvider succeeds when the provider resolves and answers HTTP with any status.
func queryProvider(reg registry.Registry, client *http.Client, name string) (ProviderInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), client.Timeout)
	defer cancel()
	endpoint, err := reg.FindEndpoint(ctx, name)
	if err != nil {
		return ProviderInfo{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return ProviderInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return ProviderInfo{}, err
	}
	resp.Body.Close()
	return ProviderInfo{Name: name, Endpoint: endpoint, Status: resp.StatusCode}, nil
}
