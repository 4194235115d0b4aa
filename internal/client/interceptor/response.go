package interceptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/courtside/internal/client/storage"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// hopHeaders не сохраняются в кэше
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade", "Set-Cookie", "Date",
}

// cacheKey - путь и query без хоста, одинаковый для всех страниц
func cacheKey(req *http.Request) string {
	return req.URL.RequestURI()
}

// noStore reports whether the upstream forbade keeping the response
func noStore(h http.Header) bool {
	for _, directive := range strings.Split(h.Get("Cache-Control"), ",") {
		if strings.EqualFold(strings.TrimSpace(directive), "no-store") {
			return true
		}
	}
	return false
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	return io.ReadAll(req.Body)
}

func setBody(req *http.Request, body []byte) {
	if len(body) == 0 {
		req.Body = http.NoBody
		req.ContentLength = 0
		req.GetBody = nil
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}

func setResponseBody(resp *http.Response, body []byte) {
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Del("Content-Length")
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
}

func cacheableHeader(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range hopHeaders {
		out.Del(name)
	}
	out.Del(pkgapi.HeaderCache)
	return out
}

func responseFromCache(req *http.Request, cached *storage.CachedResponse, source string) *http.Response {
	header := cached.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(pkgapi.HeaderCache, source)
	return bytesResponse(req, cached.StatusCode, cached.Body, header)
}

// offlineResponse - синтетический ответ, когда нет ни сети, ни снимка
func offlineResponse(req *http.Request) *http.Response {
	header := http.Header{}
	header.Set(pkgapi.HeaderOffline, "1")
	return jsonResponse(req, http.StatusServiceUnavailable, pkgapi.OfflineResponse{
		Error:   "offline",
		Message: "offline, no cached data",
	}, header)
}

func jsonResponse(req *http.Request, status int, body any, header http.Header) *http.Response {
	data, err := json.Marshal(body)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return bytesResponse(req, status, data, header)
}

func bytesResponse(req *http.Request, status int, body []byte, header http.Header) *http.Response {
	header.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
