package miner

import (
	"encoding/json"
	"errors"
	"testing"
)

func testRack() Rack {
	r := Rack{ID: 1, Name: "A-01", Width: 3}
	r.Place(0, Miner{IP: "10.0.1.1", Hashrate: Some(100.0), Power: Some(3000.0), Temp: Some(65.0)})
	r.Place(0, Miner{IP: "10.0.1.2", Hashrate: Some(0.0), Sleep: Some(true)})
	r.Place(2, Miner{IP: "10.0.1.3", Errors: Some([]string{"fan lost"}), Temp: Some(80.0)})
	return r
}

func TestRackPlaceAndFind(t *testing.T) {
	r := testRack()
	if len(r.Miners) != 3 || len(r.Miners[1]) != 0 {
		t.Fatalf("unexpected shelves %+v", r.Miners)
	}
	row, col, ok := r.Find("10.0.1.2")
	if !ok || row != 0 || col != 1 {
		t.Fatalf("Find = %d,%d,%v", row, col, ok)
	}
	if _, _, ok := r.Find("10.0.9.9"); ok {
		t.Fatal("Find should miss unknown ip")
	}
	if r.Count() != 3 {
		t.Fatalf("Count() = %d", r.Count())
	}
}

func TestRackUpdateKeepsPosition(t *testing.T) {
	r := testRack()
	if !r.Update(Miner{IP: "10.0.1.3", Hashrate: Some(90.0)}) {
		t.Fatal("Update should find miner")
	}
	if hr := r.Miners[2][0].Hashrate.OrElse(-1); hr != 90 {
		t.Fatalf("hashrate = %v", hr)
	}
	if r.Update(Miner{IP: "10.0.9.9"}) {
		t.Fatal("Update should not add miners")
	}
}

func TestCanUpdate(t *testing.T) {
	c := Can{Name: "C1", Racks: []Rack{{Name: "A"}, testRack()}}
	if !c.Update(Miner{IP: "10.0.1.1", Hashrate: Some(1.0)}) {
		t.Fatal("Can.Update should find miner in second rack")
	}
	if c.Racks[1].Miners[0][0].Hashrate.OrElse(0) != 1 {
		t.Fatal("miner not updated")
	}
}

func TestRackValidate(t *testing.T) {
	r := testRack()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	r.Place(1, Miner{IP: "10.0.1.1"})
	if err := r.Validate(); !errors.Is(err, ErrDuplicateIP) {
		t.Fatalf("expected ErrDuplicateIP, got %v", err)
	}
}

func TestRackJSONShape(t *testing.T) {
	r := testRack()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := ParseRack(data)
	if err != nil {
		t.Fatalf("ParseRack: %v", err)
	}
	if back.Count() != 3 || back.Name != "A-01" || !back.Height.IsAbsent() {
		t.Fatalf("unexpected rack %+v", back)
	}
}

func TestSummarize(t *testing.T) {
	r := testRack()
	s := r.Summary()
	if s.Miners != 3 || s.Reporting != 2 {
		t.Fatalf("counts = %+v", s)
	}
	if s.Hashrate != 100 || s.Power != 3000 {
		t.Fatalf("sums = %v %v", s.Hashrate, s.Power)
	}
	if mt, ok := s.MaxTemp.Get(); !ok || mt != 80 {
		t.Fatalf("MaxTemp = %v %v", mt, ok)
	}
	if eff, ok := s.Efficiency.Get(); !ok || eff != 30 {
		t.Fatalf("Efficiency = %v %v", eff, ok)
	}
	if s.Sleeping != 1 || s.WithErrors != 1 {
		t.Fatalf("flags = %+v", s)
	}
}

func TestSummarizeNothingReported(t *testing.T) {
	s := Summarize([]Miner{{IP: "10.0.0.1"}})
	if s.Reporting != 0 || !s.MaxTemp.IsAbsent() || !s.Efficiency.IsAbsent() {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestMinerStatus(t *testing.T) {
	tests := []struct {
		m    Miner
		want Status
	}{
		{Miner{IP: "a"}, StatusOffline},
		{Miner{IP: "a", Hashrate: Some(0.0)}, StatusIdle},
		{Miner{IP: "a", Hashrate: Some(10.0)}, StatusHashing},
		{Miner{IP: "a", Hashrate: Some(10.0), Sleep: Some(true), Locate: Some(true)}, StatusSleeping},
		{Miner{IP: "a", Hashrate: Some(10.0), Errors: Some([]string{"x"})}, StatusError},
	}
	for _, tt := range tests {
		if got := tt.m.Status(); got != tt.want {
			t.Errorf("Status(%+v) = %s, want %s", tt.m, got, tt.want)
		}
	}
}
