package servicedef

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationContextStringSortsKeys(t *testing.T) {
	c := InvocationContext{
		ContextSourceMicroservice: "springmvcclient",
		"contextKey":              "contextValue",
	}
	assert.Equal(t, "{contextKey=contextValue, x-cse-src-microservice=springmvcclient}", c.String())
	assert.Equal(t, "{}", InvocationContext{}.String())
}

func TestInvocationContextEncodeDecode(t *testing.T) {
	c := InvocationContext{"a": "1", "b": "2"}
	encoded, err := c.Encode()
	require.NoError(t, err)

	decoded, err := DecodeInvocationContext(encoded)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)

	empty, err := DecodeInvocationContext("")
	require.NoError(t, err)
	assert.Len(t, empty, 0)

	_, err = DecodeInvocationContext("not-json")
	assert.Error(t, err)
}

func TestCloneDoesNotShareMap(t *testing.T) {
	c := InvocationContext{"a": "1"}
	c2 := c.Clone()
	c2["b"] = "2"
	assert.Len(t, c, 1)
}

func TestEchoHeaderValue(t *testing.T) {
	c := InvocationContext{ContextSourceMicroservice: "client"}
	assert.Equal(t, "h1v {x-cse-src-microservice=client}", EchoHeaderValue("h1v", c))
}

func TestDateIsMillisecondsOnTheWire(t *testing.T) {
	d := NewDate(time.Unix(1700000000, 123456789))
	data, err := json.Marshal(DateBody{Date: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date": 1700000000123}`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal([]byte("1700000000123"), &decoded))
	assert.True(t, d.Equal(decoded))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &decoded))
}

func TestUserString(t *testing.T) {
	assert.Equal(t, "User [name=nameA, age=100, index=0]", User{Name: "nameA", Age: 100}.String())
}

func TestFallbackExceptionMessage(t *testing.T) {
	assert.Equal(t,
		"This is a fallback call from circuit breaker. \n You can add fallback logic or catching this exception. \n info: operation=springmvc.codeFirst.fallbackThrowException.",
		FallbackExceptionMessage("springmvc.codeFirst.fallbackThrowException"))
}
