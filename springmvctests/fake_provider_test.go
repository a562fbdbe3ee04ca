package springmvctests

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/servicecomb/springmvc-contract-tests/servicedef"

	"github.com/go-chi/chi/v5"
)

// fakeProvider behaves like the springmvc provider's codeFirst schema, including the fallback
// policies its circuit breaker applies when an operation fails.
type fakeProvider struct {
	// wrongEcho makes the provider leave the caller's context out of the h1/h2 headers.
	wrongEcho bool

	// noFallbackError makes "throwexception" mode return a value instead of an error.
	noFallbackError bool

	// valueInsteadOfNull makes "returnnull" mode return a value when the operation fails.
	valueInsteadOfNull bool

	// forcedResult replaces the result of "force" mode, if set.
	forcedResult string

	// formNullAsEmpty makes an absent form2 read as an empty string.
	formNullAsEmpty bool

	// responseEntityStatus replaces the 202 status of the responseEntity operation, if set.
	responseEntityStatus int

	cache map[string]string
	lock  sync.Mutex
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{cache: make(map[string]string)}
}

func (p *fakeProvider) handler() http.Handler {
	r := chi.NewRouter()
	r.Route(BasePath, func(r chi.Router) {
		r.Post("/upload", p.upload)
		r.Get("/fallback/{mode}/{param}", p.fallback)
		r.Post("/responseEntity", p.responseEntity)
		r.Patch("/responseEntity", p.responseEntity)
		r.Get("/cseResponse", p.cseResponse)
		r.Post("/testform", p.testForm)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (p *fakeProvider) echoHeaders(w http.ResponseWriter, r *http.Request) {
	ctx, err := servicedef.DecodeInvocationContext(r.Header.Get(servicedef.HeaderContext))
	if err != nil || p.wrongEcho {
		ctx = servicedef.InvocationContext{}
	}
	w.Header().Set("h1", servicedef.EchoHeaderValue("h1v", ctx))
	w.Header().Set("h2", servicedef.EchoHeaderValue("h2v", ctx))
}

func (p *fakeProvider) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorData{Message: err.Error()})
		return
	}
	var result string
	for _, field := range []string{"file1", "someFile"} {
		f, _, err := r.FormFile(field)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, servicedef.ErrorData{Message: err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, servicedef.ErrorData{Message: err.Error()})
			return
		}
		result += string(data)
	}
	writeJSON(w, http.StatusOK, result)
}

func (p *fakeProvider) fallback(w http.ResponseWriter, r *http.Request) {
	mode, param := chi.URLParam(r, "mode"), chi.URLParam(r, "param")
	if mode == servicedef.FallbackForce {
		result := servicedef.FallbackForcedResult
		if p.forcedResult != "" {
			result = p.forcedResult
		}
		writeJSON(w, http.StatusOK, result)
		return
	}
	if param != "throwexception" {
		p.lock.Lock()
		p.cache[mode] = param
		p.lock.Unlock()
		writeJSON(w, http.StatusOK, param)
		return
	}
	switch mode {
	case servicedef.FallbackReturnNull:
		if p.valueInsteadOfNull {
			writeJSON(w, http.StatusOK, param)
			return
		}
		writeJSON(w, http.StatusOK, nil)
	case servicedef.FallbackThrowException:
		if p.noFallbackError {
			writeJSON(w, http.StatusOK, "unexpected")
			return
		}
		writeJSON(w, 490, map[string]string{
			"code":    servicedef.FallbackErrorCode,
			"message": servicedef.FallbackExceptionMessage("springmvc.codeFirst.fallbackThrowException"),
		})
	case servicedef.FallbackFromCache:
		p.lock.Lock()
		cached := p.cache[mode]
		p.lock.Unlock()
		writeJSON(w, http.StatusOK, cached)
	default:
		writeJSON(w, http.StatusInternalServerError, servicedef.ErrorData{Message: "unknown mode " + mode})
	}
}

func (p *fakeProvider) responseEntity(w http.ResponseWriter, r *http.Request) {
	var body servicedef.DateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorData{Message: err.Error()})
		return
	}
	status := http.StatusAccepted
	if p.responseEntityStatus != 0 {
		status = p.responseEntityStatus
	}
	p.echoHeaders(w, r)
	writeJSON(w, status, body.Date)
}

func (p *fakeProvider) cseResponse(w http.ResponseWriter, r *http.Request) {
	p.echoHeaders(w, r)
	writeJSON(w, http.StatusOK, servicedef.User{Name: "nameA", Age: 100})
}

func (p *fakeProvider) testForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorData{Message: err.Error()})
		return
	}
	form2 := "null"
	if p.formNullAsEmpty {
		form2 = ""
	}
	if values, ok := r.PostForm["form2"]; ok {
		form2 = values[0]
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(r.PostForm.Get("form1") + form2))
}
