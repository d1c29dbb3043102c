// Package miner defines the firmware-agnostic miner, rack and pool model
// shared by telemetry collectors and presentation code.
//
// Every telemetry field is optional. An absent field means the value was not
// reported this cycle; it is never the same as zero.
package miner

// Pool is a mining pool endpoint and worker account. Within a miner's pool
// list, order is priority order, highest first.
type Pool struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"pass,omitempty"`
}

// Miner is a single mining device as last reported by a collector.
type Miner struct {
	// IP identifies the miner. It is unique within a rack.
	IP string `json:"ip"`

	// Telemetry
	Hashrate   Opt[float64]  `json:"hashrate,omitzero"`
	Temp       Opt[float64]  `json:"temp,omitzero"`
	Fan        Opt[FanData]  `json:"fan,omitzero"`
	Uptime     Opt[float64]  `json:"uptime,omitzero"`
	Power      Opt[float64]  `json:"power,omitzero"`
	Efficiency Opt[float64]  `json:"efficiency,omitzero"`
	Errors     Opt[[]string] `json:"errors,omitzero"`

	// Hardware identity
	Make      Opt[string]  `json:"make,omitzero"`
	Model     Opt[string]  `json:"model,omitzero"`
	Submodel  Opt[string]  `json:"submodel,omitzero"`
	MAC       Opt[string]  `json:"mac,omitzero"`
	Hashboard Opt[string]  `json:"hashboard,omitzero"`
	Nameplate Opt[float64] `json:"nameplate,omitzero"`

	// Operational flags
	Sleep  Opt[bool] `json:"sleep,omitzero"`
	Locate Opt[bool] `json:"locate,omitzero"`

	// Associations
	Pools    Opt[[]Pool]    `json:"pools,omitzero"`
	Profile  Opt[Profile]   `json:"profile,omitzero"`
	Profiles Opt[[]Profile] `json:"profiles,omitzero"`
}

// Rack is a two-dimensional arrangement of miners. Each entry of Miners is
// one shelf; empty slots are simply not present in the row.
//
// Width is advisory layout metadata. Rows may hold more miners than Width.
type Rack struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	Width  int       `json:"width"`
	Height Opt[int]  `json:"height,omitzero"`
	Miners [][]Miner `json:"miners"`
}

// Can is a mining container holding a number of racks.
type Can struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Num   int    `json:"num"`
	Racks []Rack `json:"racks"`
}

// Status is the coarse state of a miner derived from its telemetry.
type Status string

const (
	StatusOffline  Status = "offline"
	StatusSleeping Status = "sleeping"
	StatusLocating Status = "locating"
	StatusError    Status = "error"
	StatusHashing  Status = "hashing"
	StatusIdle     Status = "idle"
)

// Status derives the miner state. A miner with no hashrate reported is
// offline; sleep takes precedence over locate, and locate over errors.
func (m Miner) Status() Status {
	hr, ok := m.Hashrate.Get()
	if !ok {
		return StatusOffline
	}
	if m.Sleep.OrElse(false) {
		return StatusSleeping
	}
	if m.Locate.OrElse(false) {
		return StatusLocating
	}
	if len(m.Errors.OrElse(nil)) > 0 {
		return StatusError
	}
	if hr > 0 {
		return StatusHashing
	}
	return StatusIdle
}
