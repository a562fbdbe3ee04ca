package springmvctests

import (
	"net/http"
	"time"

	"github.com/servicecomb/springmvc-contract-tests/cse"
	"github.com/servicecomb/springmvc-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoResponseEntityTests(t *T) {
	for _, method := range []string{http.MethodPost, http.MethodPatch} {
		t.Run(method, func(t *T) {
			doResponseEntityTest(t, method)
		})
	}
}

func doResponseEntityTest(t *T, method string) {
	date := servicedef.NewDate(time.Now())
	entity := cse.NewHTTPEntity(servicedef.DateBody{Date: date}).
		AddContext("contextKey", "contextValue")

	var body servicedef.Date
	resp, err := t.Client().Exchange(t.Context(), method, t.URL("responseEntity"), entity, &body)
	require.NoError(t, err)

	expectedContext := t.DefaultContext()
	expectedContext["contextKey"] = "contextValue"

	t.AssertDate(date, body)
	t.AssertEchoHeaders(resp.Header, expectedContext)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
