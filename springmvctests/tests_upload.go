package springmvctests

import (
	"github.com/servicecomb/springmvc-contract-tests/cse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoUploadTests(t *T) {
	file1Content := "hello world"
	file2Content := " bonjour"
	file1 := t.CreateTempFile("upload1", ".txt", file1Content)
	someFile := t.CreateTempFile("upload2", ".txt", file2Content)

	body := new(cse.Multipart).
		AddFile("file1", file1).
		AddFile("someFile", someFile)
	var result string
	require.NoError(t, t.Client().PostForObject(t.Context(), t.URL("/upload"), cse.NewHTTPEntity(body), &result))
	assert.Equal(t, file1Content+file2Content, result)
}
