package springmvctests

import (
	"github.com/servicecomb/springmvc-contract-tests/framework"
)

// RunTestSuite runs every test group against the provider, in a fixed order: some fallback
// checks depend on results the provider cached from earlier calls.
func RunTestSuite(
	harness *framework.TestHarness,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, harness)

		t.Run("only rest", func(t *T) {
			t.Run("upload", DoUploadTests)
		})
		t.Run("extend", func(t *T) {
			t.Run("response entity", DoResponseEntityTests)
			t.Run("form", DoFormTests)
			t.Run("intf", DoIntfTests)
			t.Run("fallback", DoFallbackTests)
		})
	})
}
