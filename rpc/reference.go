// Package rpc binds a client-side reference to the operations of a provider schema, so that
// tests can call an operation by its ID instead of building URLs.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/servicecomb/springmvc-contract-tests/cse"
)

// ErrUnknownOperation is returned by Invoke for an operation ID the schema does not declare.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is the REST mapping of one schema operation.
type Operation struct {
	Method string
	Path   string
}

// Schema describes the operations a provider exposes under one schema ID.
type Schema struct {
	ID         string
	BasePath   string
	Operations map[string]Operation
}

// Reference is a proxy for a schema of a remote microservice.
type Reference struct {
	Microservice string
	SchemaID     string
	schema       Schema
	client       *cse.RestClient
}

// Response is the result of an invocation together with the status and headers of the
// response that carried it.
type Response struct {
	StatusCode int
	Header     http.Header
	Result     interface{}
}

func NewReference(client *cse.RestClient, microservice string, schema Schema) *Reference {
	return &Reference{
		Microservice: microservice,
		SchemaID:     schema.ID,
		schema:       schema,
		client:       client,
	}
}

// QualifiedName returns the full name of an operation as the provider reports it in
// errors: "microservice.schemaId.operationId".
func (r *Reference) QualifiedName(operationID string) string {
	return fmt.Sprintf("%s.%s.%s", r.Microservice, r.SchemaID, operationID)
}

// URL returns the cse:// URL of an operation.
func (r *Reference) URL(operationID string) (string, error) {
	op, ok := r.schema.Operations[operationID]
	if !ok {
		return "", fmt.Errorf("%w %q in schema %q", ErrUnknownOperation, operationID, r.SchemaID)
	}
	prefix := cse.Scheme + "://" + r.Microservice
	return cse.JoinURL(cse.JoinURL(prefix, r.schema.BasePath), op.Path), nil
}

// Invoke calls an operation. The response body is decoded into out, which also becomes the
// Result of the returned Response. If the call fails after a response was received, the
// Response is returned along with the error.
func (r *Reference) Invoke(
	ctx context.Context,
	operationID string,
	entity *cse.HTTPEntity,
	out interface{},
) (*Response, error) {
	target, err := r.URL(operationID)
	if err != nil {
		return nil, err
	}
	method := r.schema.Operations[operationID].Method
	if method == "" {
		method = http.MethodGet
	}
	resp, err := r.client.Exchange(ctx, method, target, entity, out)
	if resp == nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Result: out}, err
}
