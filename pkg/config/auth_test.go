package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pkgtrack/pkg/auth"
)

func TestAuthConfig_ToAuthenticator(t *testing.T) {
	tests := []struct {
		name     string
		config   *AuthConfig
		expected auth.Authenticator
	}{
		{name: "nil config", config: nil, expected: nil},
		{name: "empty config", config: &AuthConfig{}, expected: nil},
		{
			name:     "basic",
			config:   &AuthConfig{BasicAuth: &BasicAuth{Username: "user", Password: "pass"}},
			expected: &auth.BasicAuth{Username: "user", Password: "pass"},
		},
		{
			name:     "header",
			config:   &AuthConfig{HeaderAuth: &HeaderAuth{Headers: map[string]string{"X-API-Key": "k"}}},
			expected: &auth.HeaderAuth{Headers: map[string]string{"X-API-Key": "k"}},
		},
		{
			name:     "bearer",
			config:   &AuthConfig{BearerAuth: &BearerAuth{Token: "t"}},
			expected: &auth.BearerAuth{Token: "t"},
		},
		{
			name: "basic takes precedence",
			config: &AuthConfig{
				BasicAuth:  &BasicAuth{Username: "user"},
				BearerAuth: &BearerAuth{Token: "t"},
			},
			expected: &auth.BasicAuth{Username: "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.ToAuthenticator()
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMetadataAuthenticatorFromYAML(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(`settings:
  metadata_auth:
    header:
      headers:
        X-API-Key: abc`))
	require.NoError(t, err)

	authenticator := cfg.MetadataAuthenticator()
	require.NotNil(t, authenticator)
	assert.Equal(t, auth.HeaderAuthType, authenticator.Type())
}
