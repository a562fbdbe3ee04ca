package springmvctests

import (
	"net/url"

	"github.com/servicecomb/springmvc-contract-tests/cse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formCode is sent as-is, so the provider has to undo exactly one level of form encoding.
const formCode = "servicecomb%2bwelcome%40%23%24%25%5e%26*()%3d%3d"

func DoFormTests(t *T) {
	t.Run("second field absent", func(t *T) {
		form := url.Values{}
		form.Set("form1", formCode)
		assert.Equal(t, formCode+"null", postForm(t, form))
	})

	t.Run("second field empty", func(t *T) {
		form := url.Values{}
		form.Set("form1", formCode)
		form.Set("form2", "")
		assert.Equal(t, formCode+"", postForm(t, form))
	})
}

func postForm(t *T, form url.Values) string {
	entity := cse.NewHTTPEntity(form).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
	resp, err := t.Client().PostForEntity(t.Context(), t.URL("/testform"), entity)
	require.NoError(t, err)
	return resp.StringBody().StringValue()
}
