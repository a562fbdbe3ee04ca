package springmvctests

import (
	"context"
	"net/http"
	"time"

	"github.com/servicecomb/springmvc-contract-tests/cse"
	"github.com/servicecomb/springmvc-contract-tests/rpc"
	"github.com/servicecomb/springmvc-contract-tests/servicedef"
)

const (
	providerName = "springmvc"
	schemaID     = "codeFirst"

	// BasePath is where the provider mounts the codeFirst schema.
	BasePath = "/codeFirstSpringmvc"
)

const (
	opResponseEntity         = "responseEntity"
	opCseResponse            = "cseResponse"
	opFallbackThrowException = "fallbackThrowException"
)

var codeFirstSchema = rpc.Schema{
	ID:       schemaID,
	BasePath: BasePath,
	Operations: map[string]rpc.Operation{
		opResponseEntity: {Method: http.MethodPost, Path: "/responseEntity"},
		opCseResponse:    {Method: http.MethodGet, Path: "/cseResponse"},
	},
}

// CodeFirstSpringmvcIntf is the part of the provider's codeFirst schema that is called
// through an RPC reference rather than by URL.
type CodeFirstSpringmvcIntf interface {
	// ResponseEntity sends a date and gets it back; Result is a *servicedef.Date.
	ResponseEntity(ctx context.Context, date time.Time) (*rpc.Response, error)

	// CseResponse gets a fixed user; Result is a *servicedef.User.
	CseResponse(ctx context.Context) (*rpc.Response, error)
}

type codeFirstSpringmvcIntf struct {
	reference *rpc.Reference
}

func NewCodeFirstSpringmvcIntf(reference *rpc.Reference) CodeFirstSpringmvcIntf {
	return codeFirstSpringmvcIntf{reference: reference}
}

func (i codeFirstSpringmvcIntf) ResponseEntity(ctx context.Context, date time.Time) (*rpc.Response, error) {
	body := servicedef.DateBody{Date: servicedef.NewDate(date)}
	return i.reference.Invoke(ctx, opResponseEntity, cse.NewHTTPEntity(body), new(servicedef.Date))
}

func (i codeFirstSpringmvcIntf) CseResponse(ctx context.Context) (*rpc.Response, error) {
	return i.reference.Invoke(ctx, opCseResponse, nil, new(servicedef.User))
}
