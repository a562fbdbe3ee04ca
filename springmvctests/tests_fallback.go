package springmvctests

import (
	"github.com/servicecomb/springmvc-contract-tests/cse"
	"github.com/servicecomb/springmvc-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
)

// DoFallbackTests checks each fallback policy of the provider's circuit breaker. The
// "throwexception" parameter makes the provider's operation fail, so that the policy applies.
func DoFallbackTests(t *T) {
	hello := ldvalue.NewOptionalString("hello")

	t.Run(servicedef.FallbackReturnNull, func(t *T) {
		assert.Equal(t, hello, t.GetString(fallbackPath(servicedef.FallbackReturnNull, "hello")))
		assert.Equal(t, ldvalue.OptionalString{}, t.GetString(fallbackPath(servicedef.FallbackReturnNull, "throwexception")))
	})

	t.Run(servicedef.FallbackThrowException, func(t *T) {
		assert.Equal(t, hello, t.GetString(fallbackPath(servicedef.FallbackThrowException, "hello")))

		var result ldvalue.OptionalString
		err := t.Client().GetForObject(t.Context(),
			t.URL(fallbackPath(servicedef.FallbackThrowException, "throwexception")), &result)
		if err == nil {
			assert.Fail(t, "expected the fallback to raise an error", "got result: %s", result)
			return
		}
		t.Debug("error chain: %s", err)
		expected := servicedef.FallbackExceptionMessage(t.OperationName(opFallbackThrowException))
		assert.Equal(t, expected, cse.RootCause(err).Error())
	})

	t.Run(servicedef.FallbackFromCache, func(t *T) {
		assert.Equal(t, hello, t.GetString(fallbackPath(servicedef.FallbackFromCache, "hello")))
		assert.Equal(t, hello, t.GetString(fallbackPath(servicedef.FallbackFromCache, "throwexception")))
	})

	t.Run(servicedef.FallbackForce, func(t *T) {
		assert.Equal(t, ldvalue.NewOptionalString(servicedef.FallbackForcedResult),
			t.GetString(fallbackPath(servicedef.FallbackForce, "hello")))
	})
}

func fallbackPath(mode, param string) string {
	return "/fallback/" + mode + "/" + param
}
