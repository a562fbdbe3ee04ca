// Package framework contains the test harness infrastructure that is not specific to any one
// provider: the test context, result collection, filtering, and logging, plus the TestHarness
// that ties together the service registry and the REST client used to reach the provider.
//
// The general model is:
//
// 1. The harness locates the provider microservice through a registry and waits until it
// answers HTTP requests.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. A failed check is recorded and the test goes on; only FailNow
// ends a test early, and then only that test.
//
// The domain-specific code that knows what is being tested provides a test API on top of
// the test context, and the tests themselves.
package framework
