package vnish

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPayload indicates none of the payload files were found.
	ErrNoPayload = errors.New("no vnish payload found")

	// ErrBadPayload indicates a payload file could not be decoded.
	ErrBadPayload = errors.New("malformed vnish payload")
)

// FailureError describes a miner that VNish reports in failure state.
type FailureError struct {
	IP          string
	Code        int
	Description string
}

func (e *FailureError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("miner %s failure (code %d): %s", e.IP, e.Code, e.Description)
	}
	return fmt.Sprintf("miner %s failure (code %d)", e.IP, e.Code)
}

// Failure returns a *FailureError when the summary reports the miner in
// failure state, nil otherwise.
func Failure(ip string, p Payload) error {
	if p.Summary == nil {
		return nil
	}
	st := p.Summary.Miner.MinerStatus
	if !strings.EqualFold(st.MinerState, "failure") {
		return nil
	}
	return &FailureError{IP: ip, Code: st.FailureCode, Description: st.Description}
}

// IsFailure reports whether err is a miner failure.
func IsFailure(err error) bool {
	var fe *FailureError
	return errors.As(err, &fe)
}
