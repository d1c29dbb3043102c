// Package pools expands pool templates into the per-miner pool list.
//
// Worker names may carry placeholders:
//
//	{can}    name of the can holding the miner
//	{model}  miner model, lowercased
//	{ip}     last two octets of the miner address, e.g. "12x34"
//
// A template with IPSuffix > 0 also gets the last IPSuffix octets appended
// after a dot.
package pools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/powerhive/rackview/internal/netutil"
	"github.com/powerhive/rackview/pkg/miner"
)

var (
	// ErrNoPool is returned when the primary template has no URL.
	ErrNoPool = errors.New("no pool set")

	// ErrSuffixRange is returned for an IPSuffix outside 0..4.
	ErrSuffixRange = errors.New("ip suffix out of range")
)

// Template is a pool entry whose worker name is filled in per miner.
type Template struct {
	URL      string `toml:"url" yaml:"url" json:"url"`
	User     string `toml:"user" yaml:"user" json:"user"`
	Password string `toml:"pass" yaml:"pass" json:"pass,omitempty"`
	IPSuffix int    `toml:"ip_suffix" yaml:"ip_suffix" json:"ip_suffix,omitempty"`
}

// Worker is what a template is expanded against.
type Worker struct {
	IP    string
	Can   string
	Model string
}

// Expand builds the pool for one miner.
func (t Template) Expand(w Worker) (miner.Pool, error) {
	user := t.User

	if t.IPSuffix != 0 {
		if t.IPSuffix < 0 || t.IPSuffix > 4 {
			return miner.Pool{}, fmt.Errorf("%w: %d", ErrSuffixRange, t.IPSuffix)
		}
		suffix, err := netutil.OctetSuffix(w.IP, t.IPSuffix)
		if err != nil {
			return miner.Pool{}, fmt.Errorf("expand worker: %w", err)
		}
		if !strings.HasSuffix(user, ".") {
			user += "."
		}
		user += suffix
	}

	user = strings.ReplaceAll(user, "{can}", w.Can)
	if strings.Contains(user, "{model}") {
		user = strings.ReplaceAll(user, "{model}", strings.ToLower(w.Model))
	}
	if strings.Contains(user, "{ip}") {
		suffix, err := netutil.OctetSuffix(w.IP, 2)
		if err != nil {
			return miner.Pool{}, fmt.Errorf("expand worker: %w", err)
		}
		user = strings.ReplaceAll(user, "{ip}", suffix)
	}

	return miner.Pool{URL: t.URL, User: user, Password: t.Password}, nil
}

// ExpandAll expands every template in priority order. The first template
// must have a URL.
func ExpandAll(templates []Template, w Worker) ([]miner.Pool, error) {
	if len(templates) == 0 || strings.TrimSpace(templates[0].URL) == "" {
		return nil, ErrNoPool
	}
	out := make([]miner.Pool, 0, len(templates))
	for i, t := range templates {
		p, err := t.Expand(w)
		if err != nil {
			return nil, fmt.Errorf("pool %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Strip returns the templates as plain pools, without per-miner expansion.
func Strip(templates []Template) []miner.Pool {
	out := make([]miner.Pool, len(templates))
	for i, t := range templates {
		out[i] = miner.Pool{URL: t.URL, User: t.User, Password: t.Password}
	}
	return out
}
