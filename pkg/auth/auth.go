// Package auth attaches credentials to outgoing HTTP requests, such as the
// group lookups sent to the metadata service.
//
//go:generate mockgen -destination=./mocks/auth.go . Authenticator
package auth

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// Authenticator applies credentials to a request.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type names an authentication method.
type Type string

const (
	BasicAuthType  Type = "basic"
	HeaderAuthType Type = "header"
	BearerAuthType Type = "bearer"
)

// ErrInvalidCredentials is returned by Apply for credentials that cannot be sent.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

// BasicAuth sends HTTP Basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// HeaderAuth sends arbitrary headers, e.g. an API key.
type HeaderAuth struct {
	Headers map[string]string
}

// BearerAuth sends an Authorization: Bearer token.
type BearerAuth struct {
	Token string
}

func (b *BasicAuth) Apply(req *http.Request) error {
	if b.Username == "" {
		return fmt.Errorf("%w: basic auth needs a username", ErrInvalidCredentials)
	}
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

func (b *BasicAuth) Type() Type { return BasicAuthType }

func (h *HeaderAuth) Apply(req *http.Request) error {
	for k, v := range h.Headers {
		if !httpguts.ValidHeaderFieldName(k) || !httpguts.ValidHeaderFieldValue(v) {
			return fmt.Errorf("%w: header %q", ErrInvalidCredentials, k)
		}
		req.Header.Set(k, v)
	}
	return nil
}

func (h *HeaderAuth) Type() Type { return HeaderAuthType }

func (b *BearerAuth) Apply(req *http.Request) error {
	if b.Token == "" {
		return fmt.Errorf("%w: empty bearer token", ErrInvalidCredentials)
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

func (b *BearerAuth) Type() Type { return BearerAuthType }
