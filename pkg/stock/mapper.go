package stock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/powerhive/rackview/pkg/miner"
)

// Payload files LoadPayload looks for.
const (
	SystemInfoFile  = "get_system_info.json"
	MinerStatusFile = "get_miner_status.json"
	MinerConfFile   = "get_miner_conf.json"
)

// Payload holds the captured CGI responses for one miner. Nil members were
// not captured.
type Payload struct {
	System *SystemInfo
	Status *MinerStatus
	Config *MinerConfig
}

// LoadPayload reads the captured responses from dir, skipping missing files.
func LoadPayload(dir string) (Payload, error) {
	var p Payload

	read := func(name string, v any) (bool, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if err := json.Unmarshal(data, v); err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrBadPayload, name, err)
		}
		return true, nil
	}

	var (
		info   SystemInfo
		status MinerStatus
		conf   MinerConfig
	)
	ok, err := read(SystemInfoFile, &info)
	if err != nil {
		return Payload{}, err
	}
	if ok {
		p.System = &info
	}
	if ok, err = read(MinerStatusFile, &status); err != nil {
		return Payload{}, err
	}
	if ok {
		p.Status = &status
	}
	if ok, err = read(MinerConfFile, &conf); err != nil {
		return Payload{}, err
	}
	if ok {
		p.Config = &conf
	}

	if p.System == nil && p.Status == nil && p.Config == nil {
		return Payload{}, fmt.Errorf("%w in %s", ErrNoPayload, dir)
	}
	return p, nil
}

// ToMiner maps the captured responses onto the miner model. Stock firmware
// reports SHA-256 hashrate in GH/s.
func ToMiner(ip string, p Payload) miner.Miner {
	m := miner.Miner{IP: ip}

	if info := p.System; info != nil {
		mk, model, _ := strings.Cut(strings.TrimSpace(info.MinerType), " ")
		if mk != "" {
			m.Make = miner.Some(mk)
		}
		if model = strings.TrimSpace(model); model != "" {
			m.Model = miner.Some(model)
		}
		if info.MACAddr != "" {
			m.MAC = miner.Some(info.MACAddr)
		}
	}

	if st := p.Status; st != nil {
		m.Hashrate = miner.Some(st.Summary.GHS5s / 1000)
		m.Uptime = miner.Some(float64(st.Summary.Elapsed))
		if t := maxTemp(st.Devs); t > 0 {
			m.Temp = miner.Some(t)
		}
		if fans := fansFromDevs(st.Devs); len(fans) > 0 {
			m.Fan = miner.Some(fans)
		}
		m.Errors = miner.Some(devErrors(st.Devs))
		m.Locate = miner.Some(false)

		pools := make([]miner.Pool, 0, len(st.Pools))
		for _, pl := range st.Pools {
			pools = append(pools, miner.Pool{URL: pl.URL, User: pl.User})
		}
		m.Pools = miner.Some(pools)
	}

	if conf := p.Config; conf != nil {
		if reported, _ := m.Pools.Get(); len(reported) == 0 && len(conf.Pools) > 0 {
			pools := make([]miner.Pool, 0, len(conf.Pools))
			for _, pc := range conf.Pools {
				pools = append(pools, miner.Pool{URL: pc.URL, User: pc.User, Password: pc.Pass})
			}
			m.Pools = miner.Some(pools)
		}
		m.Sleep = miner.Some(conf.BitmainWorkMode == WorkModeSleep)
		m.Profile = miner.Some(workModeProfile(conf.BitmainWorkMode))
		m.Profiles = miner.Some([]miner.Profile{
			{Type: string(miner.ProfileDefault)},
			{Type: string(miner.ProfileLowPower)},
		})
	}

	return m
}

func workModeProfile(mode string) miner.Profile {
	if mode == WorkModeLowPower {
		return miner.Profile{Type: string(miner.ProfileLowPower)}
	}
	return miner.Profile{Type: string(miner.ProfileDefault)}
}

func maxTemp(devs []Dev) float64 {
	var t float64
	for _, d := range devs {
		t = max(t, d.Temperature)
	}
	return t
}

// fansFromDevs collects fan speeds, one per dev index.
func fansFromDevs(devs []Dev) miner.FanData {
	var fans miner.FanData
	seen := make(map[int]bool)
	for _, d := range devs {
		if d.FanSpeed > 0 && !seen[d.Index] {
			fans = append(fans, miner.Fan{RPM: d.FanSpeed, Status: "ok"})
			seen[d.Index] = true
		}
	}
	return fans
}

func devErrors(devs []Dev) []string {
	errs := []string{}
	for _, d := range devs {
		if strings.EqualFold(d.Enabled, "N") || d.Status == "" {
			continue
		}
		if !strings.EqualFold(d.Status, "Alive") {
			errs = append(errs, fmt.Sprintf("chain %d %s", d.Index, strings.ToLower(d.Status)))
		}
	}
	return errs
}
