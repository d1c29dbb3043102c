package miner

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseMinerRequiresIP(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing", `{"hashrate": 100}`},
		{"null", `{"ip": null}`},
		{"empty", `{"ip": "  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMiner([]byte(tt.payload))
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
			field, ok := IsMissingField(err)
			if !ok || field != "ip" {
				t.Fatalf("expected missing ip, got %q %v", field, ok)
			}
		})
	}
}

func TestParseMinerAbsentNullAndZero(t *testing.T) {
	m, err := ParseMiner([]byte(`{"ip":"10.0.1.23","hashrate":0,"temp":null,"sleep":false}`))
	if err != nil {
		t.Fatalf("ParseMiner: %v", err)
	}
	if m.IP != "10.0.1.23" {
		t.Fatalf("ip = %q", m.IP)
	}
	if hr, ok := m.Hashrate.Get(); !ok || hr != 0 {
		t.Fatalf("hashrate should be set to zero, got %v %v", hr, ok)
	}
	if !m.Temp.IsNull() {
		t.Fatal("temp should be null")
	}
	if !m.Power.IsAbsent() {
		t.Fatal("power should be absent")
	}
	if v, ok := m.Sleep.Get(); !ok || v {
		t.Fatalf("sleep should be set to false, got %v %v", v, ok)
	}
}

func TestParseMinerIgnoresUnknownFields(t *testing.T) {
	m, err := ParseMiner([]byte(`{"ip":"10.0.0.1","firmware":"vnish","chains":[1,2,3]}`))
	if err != nil {
		t.Fatalf("ParseMiner: %v", err)
	}
	if m.IP != "10.0.0.1" {
		t.Fatalf("ip = %q", m.IP)
	}
}

func TestParseMinerFullPayload(t *testing.T) {
	payload := `{
		"ip": "10.0.1.23",
		"hashrate": 104.2,
		"temp": 71,
		"fan": [5400, 0, 5300, 5350],
		"uptime": 86400,
		"power": 3250,
		"errors": ["chain 2 missing"],
		"make": "Antminer",
		"model": "S19j Pro",
		"mac": "aa:bb:cc:dd:ee:ff",
		"nameplate": 104,
		"locate": true,
		"pools": [{"url":"stratum+tcp://pool:3333","user":"acct.w1"}],
		"profile": {"type":"preset","power":3250,"ths":104},
		"profiles": [{"type":"default"},{"type":"lowpower"}]
	}`
	m, err := ParseMiner([]byte(payload))
	if err != nil {
		t.Fatalf("ParseMiner: %v", err)
	}
	fans, _ := m.Fan.Get()
	if len(fans) != 4 || fans[1].Status != "failed" || fans[0].Status != "ok" {
		t.Fatalf("unexpected fans %+v", fans)
	}
	if fans.Failed() != 1 {
		t.Fatalf("Failed() = %d", fans.Failed())
	}
	pools, _ := m.Pools.Get()
	if len(pools) != 1 || pools[0].User != "acct.w1" {
		t.Fatalf("unexpected pools %+v", pools)
	}
	p, ok := m.Profile.Get()
	if !ok || p.Kind() != ProfilePreset {
		t.Fatalf("unexpected profile %+v", p)
	}
	profiles, _ := m.Profiles.Get()
	if len(profiles) != 2 || profiles[1].Kind() != ProfileLowPower {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
	if m.Status() != StatusLocating {
		t.Fatalf("Status() = %s", m.Status())
	}
}

func TestParseMinerMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"syntax", `{"ip":`},
		{"hashrate type", `{"ip":"10.0.0.1","hashrate":"fast"}`},
		{"ip type", `{"ip":42}`},
		{"pools type", `{"ip":"10.0.0.1","pools":"none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMiner([]byte(tt.payload))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseMinerProfileWithoutType(t *testing.T) {
	_, err := ParseMiner([]byte(`{"ip":"10.0.0.1","profile":{"power":1200}}`))
	field, ok := IsMissingField(err)
	if !ok || field != "type" {
		t.Fatalf("expected missing profile type, got %v", err)
	}
}

func TestFanDataObjectFormat(t *testing.T) {
	var f FanData
	if err := json.Unmarshal([]byte(`[{"rpm":6000,"status":"ok"},{"rpm":0}]`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := f.RPMs(); len(got) != 2 || got[0] != 6000 || got[1] != 0 {
		t.Fatalf("RPMs() = %v", got)
	}
	if f[1].Status != "failed" {
		t.Fatalf("status = %q", f[1].Status)
	}
}

func TestParseMiners(t *testing.T) {
	ms, err := ParseMiners([]byte(`[{"ip":"10.0.0.1"},{"ip":"10.0.0.2","hashrate":50}]`))
	if err != nil {
		t.Fatalf("ParseMiners: %v", err)
	}
	if len(ms) != 2 || ms[1].Hashrate.OrElse(0) != 50 {
		t.Fatalf("unexpected miners %+v", ms)
	}

	_, err = ParseMiners([]byte(`[{"ip":"10.0.0.1"},{"hashrate":50}]`))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestParseRackRequiredFields(t *testing.T) {
	tests := []struct {
		payload string
		field   string
	}{
		{`{"name":"R1","width":4,"miners":[]}`, "id"},
		{`{"id":1,"width":4,"miners":[]}`, "name"},
		{`{"id":1,"name":"R1","miners":[]}`, "width"},
		{`{"id":1,"name":null,"width":4}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := ParseRack([]byte(tt.payload))
			field, ok := IsMissingField(err)
			if !ok || field != tt.field {
				t.Fatalf("expected missing %s, got %v", tt.field, err)
			}
		})
	}
}

func TestParseRackWidthIsAdvisory(t *testing.T) {
	payload := `{"id":7,"name":"A-01","width":4,"miners":[
		[{"ip":"10.0.1.1"},{"ip":"10.0.1.2"},{"ip":"10.0.1.3"},{"ip":"10.0.1.4"},{"ip":"10.0.1.5"}],
		[{"ip":"10.0.1.6"}]
	]}`
	r, err := ParseRack([]byte(payload))
	if err != nil {
		t.Fatalf("ParseRack: %v", err)
	}
	if r.Width != 4 || len(r.Miners) != 2 || len(r.Miners[0]) != 5 {
		t.Fatalf("unexpected rack %+v", r)
	}
	if over := r.Overflow(); len(over) != 1 || over[0] != 0 {
		t.Fatalf("Overflow() = %v", over)
	}
}

func TestParseRackNullSlots(t *testing.T) {
	_, err := ParseRack([]byte(`{"id":1,"name":"R","width":2,"miners":[[{"ip":"10.0.0.1"},null]]}`))
	if !errors.Is(err, ErrNullSlot) {
		t.Fatalf("expected ErrNullSlot, got %v", err)
	}

	r, err := ParseRack([]byte(`{"id":1,"name":"R","width":2,"miners":[null,[{"ip":"10.0.0.1"}]]}`))
	if err != nil {
		t.Fatalf("null row should be an empty shelf: %v", err)
	}
	if len(r.Miners) != 2 || len(r.Miners[0]) != 0 {
		t.Fatalf("unexpected rows %+v", r.Miners)
	}
}

func TestParseRackDuplicateIP(t *testing.T) {
	_, err := ParseRack([]byte(`{"id":1,"name":"R","width":2,"miners":[[{"ip":"10.0.0.1"}],[{"ip":"10.0.0.1"}]]}`))
	if !errors.Is(err, ErrDuplicateIP) {
		t.Fatalf("expected ErrDuplicateIP, got %v", err)
	}
}

func TestParseRackMinerError(t *testing.T) {
	_, err := ParseRack([]byte(`{"id":1,"name":"R","width":2,"miners":[[{"temp":60}]]}`))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if !strings.Contains(err.Error(), "miners[0][0]") {
		t.Fatalf("error should name the slot: %v", err)
	}
}

func TestParsePoolAndProfile(t *testing.T) {
	p, err := ParsePool([]byte(`{"url":"stratum+tcp://a:3333","user":"x","extra":1}`))
	if err != nil || p.URL != "stratum+tcp://a:3333" || p.User != "x" {
		t.Fatalf("ParsePool = %+v, %v", p, err)
	}
	for _, in := range []string{`{"user":"w"}`, `{"url":null,"user":"w"}`} {
		_, err := ParsePool([]byte(in))
		if field, ok := IsMissingField(err); !ok || field != "url" {
			t.Fatalf("ParsePool(%s) err = %v", in, err)
		}
	}
	if p, err := ParsePool([]byte(`{"url":"","user":"w"}`)); err != nil || p.URL != "" || p.User != "w" {
		t.Fatalf("empty url should decode: %+v, %v", p, err)
	}
	if _, err := ParseMiner([]byte(`{"ip":"10.0.0.1","pools":[{"user":"w"}]}`)); !errors.Is(err, ErrMissingField) {
		t.Fatalf("nested pool without url: %v", err)
	}

	prof, err := ParseProfile([]byte(`{"type":"MANUAL","freq":650,"volt":12.5}`))
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}
	if prof.Kind() != ProfileManual || prof.Type != "MANUAL" {
		t.Fatalf("unexpected profile %+v", prof)
	}
	if _, err := ParseProfile([]byte(`{"type":""}`)); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestMinerRoundTripKeepsAbsence(t *testing.T) {
	in := `{"ip":"10.0.0.1","temp":null,"hashrate":0}`
	m, err := ParseMiner([]byte(in))
	if err != nil {
		t.Fatalf("ParseMiner: %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "power") {
		t.Fatalf("absent field should be omitted: %s", s)
	}
	if !strings.Contains(s, `"temp":null`) || !strings.Contains(s, `"hashrate":0`) {
		t.Fatalf("null and zero should be kept: %s", s)
	}
}
