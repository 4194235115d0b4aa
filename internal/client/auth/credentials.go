package auth

import (
	"context"
	"fmt"
)

//go:generate moq -out csrf_mock.go . CSRFFetcher

// CSRFFetcher получает anti-forgery токен у upstream
type CSRFFetcher interface {
	FetchCSRFToken(ctx context.Context, bearer string) (string, error)
}

// Credentials are the headers one drain cycle replays with
type Credentials struct {
	BearerToken string
	CSRFToken   string
}

// Provider собирает учетные данные для цикла синхронизации
type Provider struct {
	session *Session
	csrf    CSRFFetcher
}

// NewProvider создает Provider
func NewProvider(session *Session, csrf CSRFFetcher) *Provider {
	return &Provider{session: session, csrf: csrf}
}

// Credentials returns the current bearer token and a freshly fetched
// anti-forgery token. The anti-forgery token is fetched on every call.
func (p *Provider) Credentials(ctx context.Context) (Credentials, error) {
	bearer, err := p.session.Token(ctx)
	if err != nil {
		return Credentials{}, err
	}

	token, err := p.csrf.FetchCSRFToken(ctx, bearer)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to fetch anti-forgery token: %w", err)
	}

	return Credentials{BearerToken: bearer, CSRFToken: token}, nil
}
