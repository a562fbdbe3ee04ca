package springmvctests

import (
	"context"
	"net/http"
	"os"

	"github.com/servicecomb/springmvc-contract-tests/cse"
	"github.com/servicecomb/springmvc-contract-tests/framework"
	"github.com/servicecomb/springmvc-contract-tests/rpc"
	"github.com/servicecomb/springmvc-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T represents a test or subtest in the springmvc test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// convenient for our use case. Those features are provided by the lower-level framework package.
//
// It also gives each test a REST client and an RPC reference to the provider, both of which log
// their requests to the test's debug output.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T. A failed assert records the failure and lets the test go on to its next
// check; a failed require ends the test.
type T struct {
	context   *framework.Context
	harness   *framework.TestHarness
	ctx       context.Context
	client    *cse.RestClient
	reference *rpc.Reference
	intf      CodeFirstSpringmvcIntf
}

func newTestScope(c *framework.Context, harness *framework.TestHarness) *T {
	ctx, cancel := context.WithCancel(context.Background())
	c.Defer(cancel)
	client := harness.Client(c.DebugLogger())
	reference := rpc.NewReference(client, providerName, codeFirstSchema)
	return &T{
		context:   c,
		harness:   harness,
		ctx:       ctx,
		client:    client,
		reference: reference,
		intf:      NewCodeFirstSpringmvcIntf(reference),
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.harness))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Context is canceled when the test ends.
func (t *T) Context() context.Context {
	return t.ctx
}

// Client returns the REST client for this test.
func (t *T) Client() *cse.RestClient {
	return t.client
}

// Intf returns the RPC reference to the provider's codeFirst schema.
func (t *T) Intf() CodeFirstSpringmvcIntf {
	return t.intf
}

// OperationName returns the qualified name of a codeFirst operation, as the provider reports it.
func (t *T) OperationName(operationID string) string {
	return t.reference.QualifiedName(operationID)
}

// URL returns the cse:// URL of a path on the provider.
func (t *T) URL(path string) string {
	return cse.JoinURL(t.harness.URLPrefix(), path)
}

// SourceMicroservice is the caller name that the provider sees in the invocation context.
func (t *T) SourceMicroservice() string {
	return t.harness.SourceMicroservice()
}

// GetString sends a GET request for a String result. The test fails and exits if the request fails.
func (t *T) GetString(path string) ldvalue.OptionalString {
	var result ldvalue.OptionalString
	require.NoError(t, t.client.GetForObject(t.ctx, t.URL(path), &result))
	return result
}

// CreateTempFile writes content to a new temporary file and returns its path. An I/O error is
// written to the harness error log and the test is skipped, since it says nothing about the
// provider.
func (t *T) CreateTempFile(prefix, suffix, content string) string {
	f, err := os.CreateTemp("", prefix+"*"+suffix)
	if err == nil {
		_, err = f.WriteString(content)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		t.harness.ErrorLogger().Printf("[%s] could not create temporary file: %s", t.context.ID(), err)
		t.context.SkipWithReason("could not create temporary file: " + err.Error())
	}
	t.Debug("created %s", f.Name())
	return f.Name()
}

// AssertEchoHeaders checks the h1 and h2 headers that the provider uses to echo back the
// invocation context it received.
func (t *T) AssertEchoHeaders(header http.Header, expected servicedef.InvocationContext) {
	assert.Equal(t, servicedef.EchoHeaderValue("h1v", expected), header.Get("h1"), "h1 header")
	assert.Equal(t, servicedef.EchoHeaderValue("h2v", expected), header.Get("h2"), "h2 header")
}

// AssertDate checks a date at the precision the provider keeps.
func (t *T) AssertDate(expected, actual servicedef.Date) {
	if !expected.Equal(actual) {
		assert.Fail(t, "dates are not equal", "expected: %s\nactual:   %s", expected, actual)
	}
}

// DefaultContext is the invocation context the provider sees when a call adds nothing to it.
func (t *T) DefaultContext() servicedef.InvocationContext {
	return servicedef.InvocationContext{servicedef.ContextSourceMicroservice: t.SourceMicroservice()}
}
