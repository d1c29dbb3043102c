// Package netutil provides IPv4 address helpers for naming and ordering
// miners by their address.
package netutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidIP indicates a string that is not a dotted IPv4 address.
var ErrInvalidIP = errors.New("invalid IPv4 address")

// ParseIPv4 parses a dotted IPv4 address.
func ParseIPv4(s string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, s)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, s)
	}
	return ip4, nil
}

// IsValidIP checks if the given string is a valid IPv4 address.
func IsValidIP(s string) bool {
	_, err := ParseIPv4(s)
	return err == nil
}

// LastOctets returns the last n octets of an IPv4 address as decimal strings.
// n must be between 1 and 4.
func LastOctets(s string, n int) ([]string, error) {
	if n < 1 || n > 4 {
		return nil, fmt.Errorf("octet count %d out of range 1..4", n)
	}
	ip, err := ParseIPv4(s)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for _, b := range ip[4-n:] {
		out = append(out, strconv.Itoa(int(b)))
	}
	return out, nil
}

// OctetSuffix joins the last n octets with "x", e.g. 10.0.12.34 with n=2
// gives "12x34".
func OctetSuffix(s string, n int) (string, error) {
	octets, err := LastOctets(s, n)
	if err != nil {
		return "", err
	}
	return strings.Join(octets, "x"), nil
}

// Compare orders two IPv4 addresses numerically. Unparseable addresses sort
// after valid ones, by string.
func Compare(a, b string) int {
	ipa, erra := ParseIPv4(a)
	ipb, errb := ParseIPv4(b)
	switch {
	case erra != nil && errb != nil:
		return strings.Compare(a, b)
	case erra != nil:
		return 1
	case errb != nil:
		return -1
	}
	x, y := ipToUint32(ipa), ipToUint32(ipb)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// ipToUint32 converts an IPv4 address to a uint32.
func ipToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}
