package miner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseMiner decodes a single miner from a telemetry payload. The ip field is
// required; every other field is optional and unknown fields are ignored.
func ParseMiner(data []byte) (Miner, error) {
	var m Miner
	if err := json.Unmarshal(data, &m); err != nil {
		return Miner{}, decodeError("miner", err)
	}
	return m, nil
}

// ParseMiners decodes a JSON array of miners.
func ParseMiners(data []byte) ([]Miner, error) {
	var ms []Miner
	if err := json.Unmarshal(data, &ms); err != nil {
		return nil, decodeError("miners", err)
	}
	return ms, nil
}

// ParseRack decodes a rack and its miner grid. id, name and width are
// required.
func ParseRack(data []byte) (Rack, error) {
	var r Rack
	if err := json.Unmarshal(data, &r); err != nil {
		return Rack{}, decodeError("rack", err)
	}
	return r, nil
}

// ParseProfile decodes a profile. type is required.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, decodeError("profile", err)
	}
	return p, nil
}

// ParsePool decodes a pool entry.
func ParsePool(data []byte) (Pool, error) {
	var p Pool
	if err := json.Unmarshal(data, &p); err != nil {
		return Pool{}, decodeError("pool", err)
	}
	return p, nil
}

// UnmarshalJSON decodes a miner and rejects payloads without an ip.
func (m *Miner) UnmarshalJSON(data []byte) error {
	type plain Miner
	var w struct {
		plain
		IP Opt[string] `json:"ip"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return decodeError("miner", err)
	}
	ip, ok := w.IP.Get()
	if !ok || strings.TrimSpace(ip) == "" {
		return missing("miner", "ip")
	}
	*m = Miner(w.plain)
	m.IP = ip
	return nil
}

// UnmarshalJSON decodes a profile and rejects payloads without a type.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var w struct {
		plain
		Type Opt[string] `json:"type"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return decodeError("profile", err)
	}
	t, ok := w.Type.Get()
	if !ok || strings.TrimSpace(t) == "" {
		return missing("profile", "type")
	}
	*p = Profile(w.plain)
	p.Type = t
	return nil
}

// UnmarshalJSON decodes a pool and rejects payloads without a url. An empty
// url is accepted; Diagnose reports it as NoPoolSet.
func (p *Pool) UnmarshalJSON(data []byte) error {
	type plain Pool
	var w struct {
		plain
		URL Opt[string] `json:"url"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return decodeError("pool", err)
	}
	url, ok := w.URL.Get()
	if !ok {
		return missing("pool", "url")
	}
	*p = Pool(w.plain)
	p.URL = url
	return nil
}

// UnmarshalJSON decodes a rack. Rows are dense: an empty slot is an omitted
// entry, so a null inside a row is rejected. A null row is an empty shelf.
func (r *Rack) UnmarshalJSON(data []byte) error {
	var w struct {
		ID     Opt[int64]        `json:"id"`
		Name   Opt[string]       `json:"name"`
		Width  Opt[int]          `json:"width"`
		Height Opt[int]          `json:"height"`
		Miners []json.RawMessage `json:"miners"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return decodeError("rack", err)
	}

	id, ok := w.ID.Get()
	if !ok {
		return missing("rack", "id")
	}
	name, ok := w.Name.Get()
	if !ok {
		return missing("rack", "name")
	}
	width, ok := w.Width.Get()
	if !ok {
		return missing("rack", "width")
	}
	if width < 0 {
		return malformed("rack", "width", fmt.Errorf("negative width %d", width))
	}

	rows := make([][]Miner, len(w.Miners))
	for i, raw := range w.Miners {
		if isNull(raw) {
			continue
		}
		var slots []json.RawMessage
		if err := json.Unmarshal(raw, &slots); err != nil {
			return malformed("rack", fmt.Sprintf("miners[%d]", i), err)
		}
		row := make([]Miner, 0, len(slots))
		for j, slot := range slots {
			if isNull(slot) {
				return &FieldError{Object: "rack", Field: fmt.Sprintf("miners[%d][%d]", i, j), Err: ErrNullSlot}
			}
			var m Miner
			if err := json.Unmarshal(slot, &m); err != nil {
				return fmt.Errorf("rack %q miners[%d][%d]: %w", name, i, j, err)
			}
			row = append(row, m)
		}
		rows[i] = row
	}

	*r = Rack{ID: id, Name: name, Width: width, Height: w.Height, Miners: rows}
	return r.Validate()
}

// Validate checks that every miner has an ip and that ips are unique within
// the rack. Width is not enforced.
func (r Rack) Validate() error {
	seen := make(map[string]struct{})
	for i, row := range r.Miners {
		for j, m := range row {
			if strings.TrimSpace(m.IP) == "" {
				return fmt.Errorf("rack %q miners[%d][%d]: %w", r.Name, i, j, missing("miner", "ip"))
			}
			if _, dup := seen[m.IP]; dup {
				return fmt.Errorf("rack %q: %w: %s", r.Name, ErrDuplicateIP, m.IP)
			}
			seen[m.IP] = struct{}{}
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func decodeError(object string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return err
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return malformed(object, te.Field, err)
	}
	return malformed(object, "", err)
}
