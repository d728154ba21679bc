package config

import "github.com/glorpus-work/pkgtrack/pkg/auth"

// AuthConfig holds the credentials sent to the metadata service. At most one
// method is used; basic wins over header, header over bearer.
type AuthConfig struct {
	BasicAuth  *BasicAuth  `yaml:"basic,omitempty"`
	HeaderAuth *HeaderAuth `yaml:"header,omitempty"`
	BearerAuth *BearerAuth `yaml:"bearer,omitempty"`
}

// BasicAuth holds configuration for HTTP Basic Authentication.
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// HeaderAuth holds configuration for custom header-based authentication.
type HeaderAuth struct {
	Headers map[string]string `yaml:"headers"`
}

// BearerAuth holds configuration for Bearer token authentication.
type BearerAuth struct {
	Token string `yaml:"token"`
}

// ToAuthenticator converts the BasicAuth configuration to an Authenticator.
func (b *BasicAuth) ToAuthenticator() auth.Authenticator {
	return &auth.BasicAuth{
		Username: b.Username,
		Password: b.Password,
	}
}

// ToAuthenticator converts the HeaderAuth configuration to an Authenticator.
func (h *HeaderAuth) ToAuthenticator() auth.Authenticator {
	return &auth.HeaderAuth{
		Headers: h.Headers,
	}
}

// ToAuthenticator converts the BearerAuth configuration to an Authenticator.
func (b *BearerAuth) ToAuthenticator() auth.Authenticator {
	return &auth.BearerAuth{
		Token: b.Token,
	}
}

// ToAuthenticator returns the configured method, or nil when none is set.
func (a *AuthConfig) ToAuthenticator() auth.Authenticator {
	if a == nil {
		return nil
	}
	switch {
	case a.BasicAuth != nil:
		return a.BasicAuth.ToAuthenticator()
	case a.HeaderAuth != nil:
		return a.HeaderAuth.ToAuthenticator()
	case a.BearerAuth != nil:
		return a.BearerAuth.ToAuthenticator()
	default:
		return nil
	}
}

// MetadataAuthenticator returns the credentials for the metadata service, or nil.
func (c *Config) MetadataAuthenticator() auth.Authenticator {
	return c.Settings.MetadataAuth.ToAuthenticator()
}
