package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgapi "github.com/iudanet/courtside/pkg/api"
)

const agentTimeout = 2 * time.Minute

// ErrAgentUnreachable indicates that no agent answers on the configured address
var ErrAgentUnreachable = errors.New("agent is not running")

//go:generate moq -out agent_mock.go . AgentAPI

// AgentAPI is the admin surface of a running agent
type AgentAPI interface {
	Status(ctx context.Context) (*pkgapi.StatusResponse, error)
	Sync(ctx context.Context) (*pkgapi.SyncResult, error)
	Queue(ctx context.Context) ([]pkgapi.QueueItem, error)
	Retry(ctx context.Context, id string) (*pkgapi.QueueItem, error)
	Dismiss(ctx context.Context, id string) error
	Control(ctx context.Context, msg pkgapi.Message) (*pkgapi.Message, error)
	Session(ctx context.Context) (*pkgapi.SessionInfo, error)
	SetToken(ctx context.Context, token string) (*pkgapi.SessionInfo, error)
	ClearSession(ctx context.Context) error
	Version(ctx context.Context) (*pkgapi.VersionResponse, error)
}

// AgentError is a non-2xx answer of the agent
type AgentError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *AgentError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("agent returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("agent returned %d: %s", e.StatusCode, e.Message)
}

// AgentClient talks to the agent over its local HTTP endpoints.
// The agent owns the database file, so the CLI never opens it directly.
type AgentClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewAgentClient создает клиент агента
func NewAgentClient(baseURL string) *AgentClient {
	return &AgentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: agentTimeout},
	}
}

func (c *AgentClient) Status(ctx context.Context) (*pkgapi.StatusResponse, error) {
	var status pkgapi.StatusResponse
	if err := c.do(ctx, http.MethodGet, pkgapi.AgentPathStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *AgentClient) Sync(ctx context.Context) (*pkgapi.SyncResult, error) {
	var result pkgapi.SyncResult
	if err := c.do(ctx, http.MethodPost, pkgapi.AgentPathSync, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AgentClient) Queue(ctx context.Context) ([]pkgapi.QueueItem, error) {
	var items []pkgapi.QueueItem
	if err := c.do(ctx, http.MethodGet, pkgapi.AgentPathQueue, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *AgentClient) Retry(ctx context.Context, id string) (*pkgapi.QueueItem, error) {
	var item pkgapi.QueueItem
	if err := c.do(ctx, http.MethodPost, pkgapi.AgentPathQueue+"/"+url.PathEscape(id)+"/retry", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *AgentClient) Dismiss(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pkgapi.AgentPathQueue+"/"+url.PathEscape(id), nil, nil)
}

// Control sends a page control message through the agent
func (c *AgentClient) Control(ctx context.Context, msg pkgapi.Message) (*pkgapi.Message, error) {
	var reply pkgapi.Message
	if err := c.do(ctx, http.MethodPost, pkgapi.AgentPathControl, msg, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *AgentClient) Session(ctx context.Context) (*pkgapi.SessionInfo, error) {
	var info pkgapi.SessionInfo
	if err := c.do(ctx, http.MethodGet, pkgapi.AgentPathAuth, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *AgentClient) SetToken(ctx context.Context, token string) (*pkgapi.SessionInfo, error) {
	var info pkgapi.SessionInfo
	if err := c.do(ctx, http.MethodPut, pkgapi.AgentPathAuth, pkgapi.SetTokenRequest{AccessToken: token}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *AgentClient) ClearSession(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, pkgapi.AgentPathAuth, nil, nil)
}

func (c *AgentClient) Version(ctx context.Context) (*pkgapi.VersionResponse, error) {
	var version pkgapi.VersionResponse
	if err := c.do(ctx, http.MethodGet, pkgapi.AgentPathVersion, nil, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

// do выполняет запрос к агенту и декодирует ответ в result
func (c *AgentClient) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w at %s: %w", ErrAgentUnreachable, c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		agentErr := &AgentError{StatusCode: resp.StatusCode}
		var errResp pkgapi.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			agentErr.Code = errResp.Error
			agentErr.Message = errResp.Message
		}
		// Ответ управляющего сообщения приходит в конверте Message
		var msg pkgapi.Message
		if agentErr.Message == "" && json.Unmarshal(respBody, &msg) == nil && msg.Type == pkgapi.MessageError {
			var data pkgapi.ErrorData
			if json.Unmarshal(msg.Data, &data) == nil {
				agentErr.Message = data.Message
			}
		}
		return agentErr
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
