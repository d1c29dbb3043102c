// Package stock converts captured Bitmain stock firmware CGI payloads into
// the firmware-agnostic miner model.
package stock

// SystemInfo is the get_system_info.cgi payload.
type SystemInfo struct {
	MinerType string `json:"minertype"`
	MACAddr   string `json:"macaddr"`
	Hostname  string `json:"hostname"`
	IPAddress string `json:"ipaddress"`

	SystemFilesystemVersion string `json:"system_filesystem_version"`

	// KS5/newer model fields
	Algorithm string `json:"Algorithm"` // capital A in API
	Serinum   string `json:"serinum"`   // misspelled in API
}

// MinerStatus is the get_miner_status.cgi payload.
type MinerStatus struct {
	Summary Summary `json:"summary"`
	Pools   []Pool  `json:"pools"`
	Devs    []Dev   `json:"devs"`
}

// Summary contains aggregated mining metrics.
type Summary struct {
	Elapsed  int     `json:"elapsed"`
	GHS5s    float64 `json:"ghs5s"`
	GHSav    float64 `json:"ghsav"`
	Accepted int     `json:"accepted"`
	Rejected int     `json:"rejected"`
	HWErrors int     `json:"hw"`
}

// Pool contains pool status.
type Pool struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
}

// Dev contains device/chain information.
type Dev struct {
	Index       int     `json:"index"`
	Enabled     string  `json:"enabled"`
	Status      string  `json:"status"`
	Temperature float64 `json:"temperature"`
	ChipFreq    int     `json:"chip_freq"`
	FanSpeed    int     `json:"fan_speed"`
	Hashrate    float64 `json:"hashrate"`
}

// MinerConfig is the get_miner_conf.cgi payload.
type MinerConfig struct {
	Pools []PoolConfig `json:"pools"`

	BitmainFanCtrl  bool   `json:"bitmain-fan-ctrl"`
	BitmainFanPWM   string `json:"bitmain-fan-pwm"`
	BitmainFreq     string `json:"bitmain-freq"`
	BitmainVoltage  string `json:"bitmain-voltage"`
	BitmainWorkMode string `json:"bitmain-work-mode"`
}

// PoolConfig contains pool configuration.
type PoolConfig struct {
	URL  string `json:"url"`
	User string `json:"user"`
	Pass string `json:"pass"`
}

// Work modes reported in bitmain-work-mode.
const (
	WorkModeNormal   = "0"
	WorkModeSleep    = "1"
	WorkModeLowPower = "3"
)
