package springmvctests

import (
	"net/http"
	"time"

	"github.com/servicecomb/springmvc-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoIntfTests(t *T) {
	t.Run("responseEntity", func(t *T) {
		date := servicedef.NewDate(time.Now())
		resp, err := t.Intf().ResponseEntity(t.Context(), date.Time)
		require.NoError(t, err)
		require.IsType(t, &servicedef.Date{}, resp.Result)

		t.AssertDate(date, *resp.Result.(*servicedef.Date))
		t.AssertEchoHeaders(resp.Header, t.DefaultContext())
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("cseResponse", func(t *T) {
		resp, err := t.Intf().CseResponse(t.Context())
		require.NoError(t, err)
		require.IsType(t, &servicedef.User{}, resp.Result)

		assert.Equal(t, "User [name=nameA, age=100, index=0]", resp.Result.(*servicedef.User).String())
		t.AssertEchoHeaders(resp.Header, t.DefaultContext())
	})
}
