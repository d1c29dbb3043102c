// Package vnish converts captured VNish firmware API payloads into the
// firmware-agnostic miner model. Fetching the payloads is up to the caller.
package vnish

import "github.com/powerhive/rackview/pkg/miner"

// NetworkStatus contains network configuration details.
type NetworkStatus struct {
	MAC      string `json:"mac"`
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	MinerName     string        `json:"miner_name"`
	NetworkStatus NetworkStatus `json:"network_status"`
	Uptime        string        `json:"uptime"`
}

// MinerInfo is the /info payload.
type MinerInfo struct {
	Miner     string     `json:"miner"`
	Model     string     `json:"model"`
	FWName    string     `json:"fw_name"`
	FWVersion string     `json:"fw_version"`
	Platform  string     `json:"platform"`
	Algorithm string     `json:"algorithm"`
	HRMeasure string     `json:"hr_measure"`
	System    SystemInfo `json:"system"`
	Serial    string     `json:"serial"`
}

// MinerStatus contains the current miner operational status.
type MinerStatus struct {
	MinerState      string `json:"miner_state"`
	MinerStateTime  int    `json:"miner_state_time"`
	Description     string `json:"description"`
	FailureCode     int    `json:"failure_code"`
	FindMiner       bool   `json:"find_miner"`
	RestartRequired bool   `json:"restart_required"`
	RebootRequired  bool   `json:"reboot_required"`
}

// TempRange contains min/max temperature values.
type TempRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Pool contains mining pool information.
type Pool struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	User     string `json:"user"`
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Cooling contains cooling status information.
type Cooling struct {
	FanNum  int           `json:"fan_num"`
	Fans    miner.FanData `json:"fans"`
	FanDuty int           `json:"fan_duty"`
}

// ChainStatus contains chain operational state.
type ChainStatus struct {
	State string `json:"state"`
}

// Chain contains hashboard information.
type Chain struct {
	ID         int         `json:"id"`
	Frequency  float64     `json:"frequency"`
	Voltage    float64     `json:"voltage"`
	HashrateRT float64     `json:"hashrate_rt"`
	ChipTemp   TempRange   `json:"chip_temp"`
	Status     ChainStatus `json:"status"`
}

// MinerSummary contains the miner summary data.
type MinerSummary struct {
	MinerStatus      MinerStatus `json:"miner_status"`
	MinerType        string      `json:"miner_type"`
	HRStock          float64     `json:"hr_stock"`
	AverageHashrate  float64     `json:"average_hashrate"`
	InstantHashrate  float64     `json:"instant_hashrate"`
	PCBTemp          TempRange   `json:"pcb_temp"`
	ChipTemp         TempRange   `json:"chip_temp"`
	PowerConsumption int         `json:"power_consumption"`
	PowerEfficiency  float64     `json:"power_efficiency"`
	Pools            []Pool      `json:"pools"`
	Cooling          Cooling     `json:"cooling"`
	Chains           []Chain     `json:"chains"`
}

// Summary is the /summary payload.
type Summary struct {
	Miner MinerSummary `json:"miner"`
}

// CurrentPreset contains the current autotune preset.
type CurrentPreset struct {
	Name   string `json:"name"`
	Pretty string `json:"pretty"`
	Status string `json:"status"`
}

// PerfSummary is the /perf-summary payload.
type PerfSummary struct {
	CurrentPreset CurrentPreset `json:"current_preset"`
}

// TuneSettings contains autotune settings for a preset.
type TuneSettings struct {
	Hashrate float64 `json:"hashrate"`
	Volt     int     `json:"volt"`
	Freq     int     `json:"freq"`
}

// AutotunePreset is one entry of the /autotune/presets payload.
type AutotunePreset struct {
	Name         string        `json:"name"`
	Pretty       string        `json:"pretty"`
	Status       string        `json:"status"`
	TuneSettings *TuneSettings `json:"tune_settings,omitempty"`
}
