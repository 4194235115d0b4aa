package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/courtside/pkg/api"
)

// DefaultTimeout ограничивает один запрос к upstream
const DefaultTimeout = 30 * time.Second

// Client представляет HTTP клиент для взаимодействия с upstream сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Timeout: DefaultTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Ограничиваем количество редиректов
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			// Копируем заголовки Authorization при редиректе
			if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
				req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
			}
			return nil
		},
	})
}

// NewClientWithHTTP создает API клиент поверх заданного http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the upstream base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health проверяет доступность upstream
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// FetchCSRFToken получает свежий anti-forgery токен. Токен никогда не кэшируется.
func (c *Client) FetchCSRFToken(ctx context.Context, bearer string) (string, error) {
	var resp api.CSRFTokenResponse
	headers := http.Header{}
	setBearer(headers, bearer)

	if _, err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/csrf", headers, nil, &resp); err != nil {
		return "", fmt.Errorf("csrf token request failed: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("csrf token request failed: empty token")
	}
	return resp.Token, nil
}

// IssueDevToken запрашивает тестовый bearer токен у upstream в dev режиме
func (c *Client) IssueDevToken(ctx context.Context, req api.DevTokenRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/dev-token", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("dev token request failed: %w", err)
	}
	return &resp, nil
}

// ReplayRequest describes one queued write sent back to the upstream
type ReplayRequest struct {
	Method         string
	Path           string
	IdempotencyKey string
	BearerToken    string
	CSRFToken      string
	Payload        json.RawMessage
}

// ReplayResult is the upstream answer to a successful replay
type ReplayResult struct {
	ServerID   string // id из ответа на CREATE, если сервер его вернул
	Body       []byte
	StatusCode int
}

// Replay sends a queued write with its original payload.
// Non-2xx answers are returned as *StatusError, transport failures wrap ErrConnection.
func (c *Client) Replay(ctx context.Context, req ReplayRequest) (*ReplayResult, error) {
	headers := http.Header{}
	setBearer(headers, req.BearerToken)
	if req.CSRFToken != "" {
		headers.Set(api.HeaderCSRFToken, req.CSRFToken)
	}
	if req.IdempotencyKey != "" {
		headers.Set(api.HeaderIdempotencyKey, req.IdempotencyKey)
	}

	var body []byte
	if len(req.Payload) > 0 {
		body = req.Payload
	}

	status, respBody, err := c.do(ctx, req.Method, req.Path, headers, body)
	if err != nil {
		return nil, fmt.Errorf("replay %s %s: %w", req.Method, req.Path, err)
	}

	result := &ReplayResult{StatusCode: status, Body: respBody}

	// Сервер возвращает {"id": ...} на создание
	if len(respBody) > 0 {
		var created api.CreatedResponse
		if err := json.Unmarshal(respBody, &created); err == nil {
			result.ServerID = created.ServerID()
		}
	}

	return result, nil
}

// doRequest выполняет JSON запрос и декодирует успешный ответ в result
func (c *Client) doRequest(ctx context.Context, method, path string, headers http.Header, body []byte, result any) (int, error) {
	status, respBody, err := c.do(ctx, method, path, headers, body)
	if err != nil {
		return status, err
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return status, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return status, nil
}

// do выполняет HTTP запрос и возвращает статус и тело ответа
func (c *Client) do(ctx context.Context, method, path string, headers http.Header, body []byte) (int, []byte, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range headers {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// Ответ оборвался - сервер мог применить запрос, но результат неизвестен
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response body: %w", ErrConnection, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Error
			}
		} else if len(respBody) > 0 && len(respBody) <= 256 {
			statusErr.Message = strings.TrimSpace(string(respBody))
		}
		return resp.StatusCode, respBody, statusErr
	}

	return resp.StatusCode, respBody, nil
}

func setBearer(h http.Header, token string) {
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
}
