package cse

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/servicecomb/springmvc-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// HTTPEntity is the content of a request: headers, an optional body, and invocation context
// values to send in addition to the ones the client always adds.
//
// Body is encoded according to its type: []byte and string are sent as-is, url.Values as a
// form, *Multipart as multipart/form-data, and anything else as JSON.
type HTTPEntity struct {
	Header  http.Header
	Body    interface{}
	Context servicedef.InvocationContext
}

// NewHTTPEntity creates an entity with the given body.
func NewHTTPEntity(body interface{}) *HTTPEntity {
	return &HTTPEntity{Body: body}
}

// AddContext adds a value to the invocation context of calls made with this entity.
func (e *HTTPEntity) AddContext(key, value string) *HTTPEntity {
	if e.Context == nil {
		e.Context = servicedef.InvocationContext{}
	}
	e.Context[key] = value
	return e
}

// SetHeader sets a request header.
func (e *HTTPEntity) SetHeader(name, value string) *HTTPEntity {
	if e.Header == nil {
		e.Header = make(http.Header)
	}
	e.Header.Set(name, value)
	return e
}

// ResponseEntity is the status and headers of a response. The body is decoded separately into
// a value supplied by the caller.
type ResponseEntity struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into out.
func (r *ResponseEntity) Decode(out interface{}) error {
	return decodeBody(r.Body, out)
}

// StringBody interprets the body as a string result. See DecodeString.
func (r *ResponseEntity) StringBody() ldvalue.OptionalString {
	return DecodeString(r.Body)
}

// DecodeString interprets a response body as a string result, the way the provider encodes
// String return values: a JSON string is unquoted, a JSON null or an empty body means no value,
// and anything else is taken as plain text.
func DecodeString(body []byte) ldvalue.OptionalString {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return ldvalue.OptionalString{}
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return ldvalue.NewOptionalString(s)
		}
	}
	return ldvalue.NewOptionalString(string(body))
}

func decodeBody(body []byte, out interface{}) error {
	switch o := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*o = body
		return nil
	case *ldvalue.OptionalString:
		*o = DecodeString(body)
		return nil
	case *string:
		*o = DecodeString(body).StringValue()
		return nil
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
