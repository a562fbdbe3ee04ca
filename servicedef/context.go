package servicedef

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	// HeaderContext carries the JSON-encoded invocation context on every request.
	HeaderContext = "x-cse-context"

	// ContextSourceMicroservice is the context key holding the caller's microservice name.
	ContextSourceMicroservice = "x-cse-src-microservice"

	// HeaderTestRunID identifies the test run in provider logs. It is not part of the context.
	HeaderTestRunID = "X-Test-Run-Id"
)

// InvocationContext is the set of key/value pairs that travel with a call from one
// microservice to another.
type InvocationContext map[string]string

// Clone returns a copy that can be modified without affecting the original.
func (c InvocationContext) Clone() InvocationContext {
	ret := make(InvocationContext, len(c))
	for k, v := range c {
		ret[k] = v
	}
	return ret
}

// String renders the context the way the provider echoes it back: "{k1=v1, k2=v2}", with
// keys in sorted order.
func (c InvocationContext) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+c[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Encode returns the header value for HeaderContext.
func (c InvocationContext) Encode() (string, error) {
	data, err := json.Marshal(map[string]string(c))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeInvocationContext parses a HeaderContext value. An empty value is an empty context.
func DecodeInvocationContext(value string) (InvocationContext, error) {
	ret := InvocationContext{}
	if value == "" {
		return ret, nil
	}
	if err := json.Unmarshal([]byte(value), &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// EchoHeaderValue is the value the provider returns in the h1/h2 headers: the header's own
// prefix followed by the context it received.
func EchoHeaderValue(prefix string, c InvocationContext) string {
	return prefix + " " + c.String()
}
