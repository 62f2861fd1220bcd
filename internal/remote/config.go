package remote

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTimeout bounds a single remote request when the declaration does
// not say otherwise.
const DefaultTimeout = 10 * time.Second

// Server declares one remote context backend, as read from servers.toml.
type Server struct {
	// Name identifies the server in logs and cache keys.
	Name string `toml:"name"`

	// URL is the server base URL.
	URL string `toml:"url"`

	// Token is the Bearer token, or the name of an environment variable
	// holding it when TokenEnv is set.
	Token    string `toml:"token,omitempty"`
	TokenEnv string `toml:"token_env,omitempty"`

	// TimeoutMs bounds a single request.
	TimeoutMs int `toml:"timeout_ms,omitempty"`
}

// ServersFile is the on-disk declaration of remote servers.
type ServersFile struct {
	Servers []Server `toml:"servers"`
}

// LoadServers reads a servers.toml declaration file.
func LoadServers(path string) (*ServersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server declarations: %w", err)
	}

	var file ServersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse server declarations: %w", err)
	}

	for i := range file.Servers {
		if file.Servers[i].Name == "" {
			return nil, fmt.Errorf("server declaration %d has no name", i)
		}
		if file.Servers[i].URL == "" {
			return nil, fmt.Errorf("server %q has no url", file.Servers[i].Name)
		}
	}

	return &file, nil
}

// GetToken resolves the Bearer token, preferring the environment variable
// indirection so tokens stay out of checked-in files.
func (s *Server) GetToken() string {
	if s.TokenEnv != "" {
		if v := os.Getenv(s.TokenEnv); v != "" {
			return v
		}
	}
	return s.Token
}

// GetTimeout returns the per-request timeout.
func (s *Server) GetTimeout() time.Duration {
	if s.TimeoutMs > 0 {
		return time.Duration(s.TimeoutMs) * time.Millisecond
	}
	return DefaultTimeout
}
