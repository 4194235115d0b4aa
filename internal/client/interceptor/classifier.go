package interceptor

import (
	"net/http"
	"strings"
)

// Class is the strategy selected for a request. It is computed once per
// request at the boundary of the transport.
type Class int

const (
	// ClassPassthrough requests are forwarded untouched
	ClassPassthrough Class = iota
	// ClassStatic requests are served cache-first
	ClassStatic
	// ClassDynamic requests are served network-first with cache fallback
	ClassDynamic
	// ClassWrite requests go to the network and are queued when it is unreachable
	ClassWrite
)

func (c Class) String() string {
	switch c {
	case ClassStatic:
		return "static"
	case ClassDynamic:
		return "dynamic"
	case ClassWrite:
		return "write"
	default:
		return "passthrough"
	}
}

// DefaultAPIPrefix is the path prefix of state-bearing API calls
const DefaultAPIPrefix = "/api/"

// Classifier decides the class of a request from its method and path
type Classifier struct {
	apiPrefix string
}

// NewClassifier создает классификатор. Пустой префикс означает DefaultAPIPrefix
func NewClassifier(apiPrefix string) Classifier {
	if apiPrefix == "" {
		apiPrefix = DefaultAPIPrefix
	}
	if !strings.HasPrefix(apiPrefix, "/") {
		apiPrefix = "/" + apiPrefix
	}
	if !strings.HasSuffix(apiPrefix, "/") {
		apiPrefix += "/"
	}
	return Classifier{apiPrefix: apiPrefix}
}

// APIPrefix returns the normalised API prefix
func (c Classifier) APIPrefix() string {
	return c.apiPrefix
}

// Classify returns the class of r
func (c Classifier) Classify(r *http.Request) Class {
	isAPI := strings.HasPrefix(r.URL.Path+"/", c.apiPrefix)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if isAPI {
			return ClassDynamic
		}
		return ClassStatic
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		if isAPI {
			return ClassWrite
		}
		return ClassPassthrough
	default:
		return ClassPassthrough
	}
}
