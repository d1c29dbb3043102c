package state

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings configure the telemetry polling loop. Durations are in seconds.
type Settings struct {
	RefreshRate       int `json:"refreshRate" toml:"refresh_rate" yaml:"refresh_rate"`
	MaxConnections    int `json:"maxConnections" toml:"max_connections" yaml:"max_connections"`
	ConnectionTimeout int `json:"connectionTimeout" toml:"connection_timeout" yaml:"connection_timeout"`
	ReadTimeout       int `json:"readTimeout" toml:"read_timeout" yaml:"read_timeout"`
}

// DefaultSettings returns the settings used until something else is set.
func DefaultSettings() Settings {
	return Settings{
		RefreshRate:       15,
		MaxConnections:    500,
		ConnectionTimeout: 10,
		ReadTimeout:       15,
	}
}

// Validate requires every value to be positive.
func (s Settings) Validate() error {
	check := []struct {
		name string
		v    int
	}{
		{"refreshRate", s.RefreshRate},
		{"maxConnections", s.MaxConnections},
		{"connectionTimeout", s.ConnectionTimeout},
		{"readTimeout", s.ReadTimeout},
	}
	for _, c := range check {
		if c.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidSettings, c.name, c.v)
		}
	}
	return nil
}

// RefreshInterval is the delay between polling rounds.
func (s Settings) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshRate) * time.Second
}

// ConnectTimeout bounds connection setup for a single miner query.
func (s Settings) ConnectTimeout() time.Duration {
	return time.Duration(s.ConnectionTimeout) * time.Second
}

// ReadDeadline bounds reading a single miner response.
func (s Settings) ReadDeadline() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}
