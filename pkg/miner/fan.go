package miner

import "encoding/json"

// Fan is a single fan reading.
type Fan struct {
	RPM    int    `json:"rpm"`
	Status string `json:"status,omitempty"`
}

// FanData accepts both fan formats collectors send:
//   - Legacy: array of ints [5400, 5300, ...]
//   - Modern: array of objects [{"rpm": 5400, "status": "ok"}, ...]
type FanData []Fan

// UnmarshalJSON implements custom unmarshaling for flexible fan data.
func (f *FanData) UnmarshalJSON(data []byte) error {
	var fans []Fan
	if err := json.Unmarshal(data, &fans); err == nil {
		for i := range fans {
			if fans[i].Status == "" {
				fans[i].Status = fanStatus(fans[i].RPM)
			}
		}
		*f = fans
		return nil
	}

	var rpms []int
	if err := json.Unmarshal(data, &rpms); err != nil {
		return err
	}

	*f = make([]Fan, len(rpms))
	for i, rpm := range rpms {
		(*f)[i] = Fan{RPM: rpm, Status: fanStatus(rpm)}
	}
	return nil
}

// RPMs returns the raw speeds in fan order.
func (f FanData) RPMs() []int {
	out := make([]int, len(f))
	for i, fan := range f {
		out[i] = fan.RPM
	}
	return out
}

// Failed returns the number of fans not spinning.
func (f FanData) Failed() int {
	n := 0
	for _, fan := range f {
		if fan.RPM == 0 {
			n++
		}
	}
	return n
}

func fanStatus(rpm int) string {
	if rpm == 0 {
		return "failed"
	}
	return "ok"
}
