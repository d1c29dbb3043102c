package vnish

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/powerhive/rackview/pkg/miner"
)

// Payload files LoadPayload looks for, named after the API endpoints.
const (
	InfoFile    = "info.json"
	SummaryFile = "summary.json"
	PerfFile    = "perf-summary.json"
	PresetsFile = "autotune-presets.json"
)

// Payload holds whatever VNish responses were captured for one miner.
// Nil members were not captured.
type Payload struct {
	Info    *MinerInfo
	Summary *Summary
	Perf    *PerfSummary
	Presets []AutotunePreset
}

// LoadPayload reads the captured responses from dir. Missing files are
// skipped; a directory with none of them is an error.
func LoadPayload(dir string) (Payload, error) {
	var p Payload
	found := 0

	load := func(name string, v any) error {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadPayload, name, err)
		}
		found++
		return nil
	}

	var info MinerInfo
	var summary Summary
	var perf PerfSummary
	var presets []AutotunePreset
	if err := load(InfoFile, &info); err != nil {
		return Payload{}, err
	}
	if found > 0 {
		p.Info = &info
	}
	n := found
	if err := load(SummaryFile, &summary); err != nil {
		return Payload{}, err
	}
	if found > n {
		p.Summary = &summary
	}
	n = found
	if err := load(PerfFile, &perf); err != nil {
		return Payload{}, err
	}
	if found > n {
		p.Perf = &perf
	}
	if err := load(PresetsFile, &presets); err != nil {
		return Payload{}, err
	}
	p.Presets = presets

	if found == 0 {
		return Payload{}, fmt.Errorf("%w in %s", ErrNoPayload, dir)
	}
	return p, nil
}

// ToMiner maps the captured responses onto the miner model. Values missing
// from the payload stay absent.
func ToMiner(ip string, p Payload) miner.Miner {
	m := miner.Miner{IP: ip}
	measure := "GH/s"

	if info := p.Info; info != nil {
		if info.HRMeasure != "" {
			measure = info.HRMeasure
		}
		mk, model := splitMinerName(info.Miner)
		if model == "" {
			model = info.Model
		}
		setString(&m.Make, mk)
		setString(&m.Model, model)
		setString(&m.MAC, info.System.NetworkStatus.MAC)
		if up := parseUptime(info.System.Uptime); up > 0 {
			m.Uptime = miner.Some(float64(up))
		}
	}

	if p.Summary != nil {
		s := p.Summary.Miner
		state := strings.ToLower(s.MinerStatus.MinerState)

		m.Hashrate = miner.Some(toTHS(s.InstantHashrate, measure))
		m.Power = miner.Some(float64(s.PowerConsumption))
		if s.PowerEfficiency > 0 {
			m.Efficiency = miner.Some(s.PowerEfficiency)
		}
		if s.HRStock > 0 {
			m.Nameplate = miner.Some(toTHS(s.HRStock, measure))
		}
		switch {
		case s.ChipTemp.Max > 0:
			m.Temp = miner.Some(float64(s.ChipTemp.Max))
		case s.PCBTemp.Max > 0:
			m.Temp = miner.Some(float64(s.PCBTemp.Max))
		}
		if len(s.Cooling.Fans) > 0 {
			m.Fan = miner.Some(s.Cooling.Fans)
		}
		m.Sleep = miner.Some(state == "stopped" || state == "paused")
		m.Locate = miner.Some(s.MinerStatus.FindMiner)

		pools := make([]miner.Pool, 0, len(s.Pools))
		for _, pl := range s.Pools {
			pools = append(pools, miner.Pool{URL: pl.URL, User: pl.User})
		}
		m.Pools = miner.Some(pools)
		m.Errors = miner.Some(summaryErrors(s))
	}

	profiles := make([]miner.Profile, 0, len(p.Presets))
	for _, ap := range p.Presets {
		if prof, ok := presetProfile(ap, measure); ok {
			profiles = append(profiles, prof)
		}
	}
	if len(p.Presets) > 0 {
		m.Profiles = miner.Some(profiles)
	}

	if p.Perf != nil {
		m.Profile = miner.Some(currentProfile(p.Perf.CurrentPreset, profiles))
	}

	return m
}

func summaryErrors(s MinerSummary) []string {
	errs := []string{}
	if strings.EqualFold(s.MinerStatus.MinerState, "failure") {
		msg := s.MinerStatus.Description
		if msg == "" {
			msg = fmt.Sprintf("failure code %d", s.MinerStatus.FailureCode)
		}
		errs = append(errs, msg)
	}
	for _, c := range s.Chains {
		switch st := strings.ToLower(c.Status.State); st {
		case "failure", "disconnected":
			errs = append(errs, fmt.Sprintf("chain %d %s", c.ID, st))
		}
	}
	return errs
}

// presetProfile maps an autotune preset. VNish names presets by their power
// target in watts; "disabled" is the stock profile.
func presetProfile(ap AutotunePreset, measure string) (miner.Profile, bool) {
	if isStockPreset(ap.Name) {
		return miner.Profile{Type: string(miner.ProfileDefault)}, true
	}
	watts, err := strconv.Atoi(ap.Name)
	if err != nil {
		return miner.Profile{}, false
	}
	prof := miner.Profile{Type: string(miner.ProfilePreset), Power: miner.Some(float64(watts))}
	if ap.TuneSettings != nil && ap.TuneSettings.Hashrate > 0 {
		prof.THS = miner.Some(toTHS(ap.TuneSettings.Hashrate, measure))
	}
	if ap.Pretty != "" {
		prof.Name = miner.Some(ap.Pretty)
	}
	return prof, true
}

func currentProfile(cur CurrentPreset, catalog []miner.Profile) miner.Profile {
	if isStockPreset(cur.Name) {
		return miner.Profile{Type: string(miner.ProfileDefault)}
	}
	watts, err := strconv.Atoi(cur.Name)
	if err != nil {
		return miner.Profile{Type: cur.Name, Name: miner.Some(cur.Pretty)}
	}
	for _, p := range catalog {
		if p.Power.OrElse(-1) == float64(watts) {
			return p
		}
	}
	prof := miner.Profile{Type: string(miner.ProfilePreset), Power: miner.Some(float64(watts))}
	if cur.Pretty != "" {
		prof.Name = miner.Some(cur.Pretty)
	}
	return prof
}

func isStockPreset(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "" || n == "disabled"
}

// splitMinerName splits "Antminer S19j Pro" into make and model.
func splitMinerName(name string) (string, string) {
	name = strings.TrimSpace(name)
	mk, model, _ := strings.Cut(name, " ")
	return mk, strings.TrimSpace(model)
}

// toTHS converts a hashrate reported in measure to TH/s.
func toTHS(v float64, measure string) float64 {
	switch strings.ToUpper(strings.TrimSpace(measure)) {
	case "MH/S":
		return v / 1e6
	case "GH/S":
		return v / 1e3
	case "PH/S":
		return v * 1e3
	default:
		return v
	}
}

// parseUptime converts a VNish uptime string to seconds.
// Format can be "H:MM", "HH:MM" or "D:HH:MM".
func parseUptime(uptime string) int {
	parts := strings.Split(strings.TrimSpace(uptime), ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return nums[0]*3600 + nums[1]*60
	case 3:
		return nums[0]*86400 + nums[1]*3600 + nums[2]*60
	default:
		return 0
	}
}

func setString(dst *miner.Opt[string], v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = miner.Some(v)
	}
}
