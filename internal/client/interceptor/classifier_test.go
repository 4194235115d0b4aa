package interceptor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClassifier_NormalisesPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", DefaultAPIPrefix},
		{"/api/", "/api/"},
		{"api", "/api/"},
		{"/v2/api", "/v2/api/"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, NewClassifier(tt.prefix).APIPrefix())
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier("")

	tests := []struct {
		name   string
		method string
		target string
		want   Class
	}{
		{"api read", http.MethodGet, "/api/games/5", ClassDynamic},
		{"api collection with query", http.MethodGet, "/api/shots?gameId=5", ClassDynamic},
		{"api root", http.MethodGet, "/api", ClassDynamic},
		{"api head", http.MethodHead, "/api/teams", ClassDynamic},
		{"asset", http.MethodGet, "/static/app.js", ClassStatic},
		{"index", http.MethodGet, "/", ClassStatic},
		{"prefix lookalike", http.MethodGet, "/apidocs", ClassStatic},
		{"create", http.MethodPost, "/api/shots", ClassWrite},
		{"replace", http.MethodPut, "/api/games/5", ClassWrite},
		{"patch", http.MethodPatch, "/api/games/5", ClassWrite},
		{"delete", http.MethodDelete, "/api/events/3", ClassWrite},
		{"form post outside api", http.MethodPost, "/login", ClassPassthrough},
		{"options", http.MethodOptions, "/api/games", ClassPassthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://localhost"+tt.target, nil)
			assert.Equal(t, tt.want, c.Classify(req))
		})
	}
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "static", ClassStatic.String())
	assert.Equal(t, "dynamic", ClassDynamic.String())
	assert.Equal(t, "write", ClassWrite.String())
	assert.Equal(t, "passthrough", ClassPassthrough.String())
}
