package rrdata

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"github.com/haukened/dirdns/internal/dns/domain"
)

// SvcParamKey identifies an SVCB/HTTPS service parameter (RFC 9460 §14.3.2).
type SvcParamKey uint16

const (
	SvcParamMandatory     SvcParamKey = 0
	SvcParamALPN          SvcParamKey = 1
	SvcParamNoDefaultALPN SvcParamKey = 2
	SvcParamPort          SvcParamKey = 3
	SvcParamIPv4Hint      SvcParamKey = 4
	SvcParamIPv6Hint      SvcParamKey = 6
)

var svcParamKeys = map[string]SvcParamKey{
	"MANDATORY":       SvcParamMandatory,
	"ALPN":            SvcParamALPN,
	"NO_DEFAULT_ALPN": SvcParamNoDefaultALPN,
	"PORT":            SvcParamPort,
	"IPV4HINT":        SvcParamIPv4Hint,
	"IPV6HINT":        SvcParamIPv6Hint,
	// accepted as an alias of ALPN
	"ADDITIONAL_SUPPORTED_PROTOCOLS": SvcParamALPN,
}

// String returns the zone-file spelling of the key.
func (k SvcParamKey) String() string {
	switch k {
	case SvcParamMandatory:
		return "MANDATORY"
	case SvcParamALPN:
		return "ALPN"
	case SvcParamNoDefaultALPN:
		return "NO_DEFAULT_ALPN"
	case SvcParamPort:
		return "PORT"
	case SvcParamIPv4Hint:
		return "IPV4HINT"
	case SvcParamIPv6Hint:
		return "IPV6HINT"
	default:
		return "KEY" + strconv.Itoa(int(k))
	}
}

// ParseSvcParamKey resolves a key name case-insensitively; '-' and '_' are interchangeable.
func ParseSvcParamKey(s string) (SvcParamKey, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if k, ok := svcParamKeys[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedParameter, s)
}

type svcParam struct {
	key   SvcParamKey
	value []byte
}

// encodeSVCBData encodes an SVCB or HTTPS record body:
// "<priority>\n<target>" followed by "<key>\n<value>" pairs. NO_DEFAULT_ALPN takes no value;
// a blank line after it is consumed. Parameters are written in ascending key order and a key
// may appear only once.
func encodeSVCBData(body string) ([]byte, error) {
	ls := lines(body)
	if len(ls) < 2 {
		return nil, fieldError("body", fmt.Errorf("expected priority and target, got %d lines", len(ls)))
	}
	prio, err := parseUint("priority", ls[0], 16)
	if err != nil {
		return nil, err
	}
	target, err := encodeDomainName("target", ls[1])
	if err != nil {
		return nil, err
	}

	var params []svcParam
	for i := 2; i < len(ls); {
		if ls[i] == "" {
			i++
			continue
		}
		key, err := ParseSvcParamKey(ls[i])
		if err != nil {
			return nil, err
		}
		i++
		var raw string
		if key == SvcParamNoDefaultALPN {
			if i < len(ls) && ls[i] == "" {
				i++
			}
		} else {
			if i >= len(ls) {
				return nil, fieldError(key.String(), fmt.Errorf("missing value"))
			}
			raw = ls[i]
			i++
		}
		value, err := encodeSvcParamValue(key, raw)
		if err != nil {
			return nil, err
		}
		params = append(params, svcParam{key: key, value: value})
	}

	slices.SortStableFunc(params, func(a, b svcParam) int { return int(a.key) - int(b.key) })
	encoded := binary.BigEndian.AppendUint16(nil, uint16(prio))
	encoded = append(encoded, target...)
	for i, p := range params {
		if i > 0 && params[i-1].key == p.key {
			return nil, fieldError(p.key.String(), fmt.Errorf("duplicate parameter"))
		}
		if len(p.value) > 0xFFFF {
			return nil, fieldError(p.key.String(), fmt.Errorf("value too long"))
		}
		encoded = binary.BigEndian.AppendUint16(encoded, uint16(p.key))
		encoded = binary.BigEndian.AppendUint16(encoded, uint16(len(p.value)))
		encoded = append(encoded, p.value...)
	}
	return encoded, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func encodeSvcParamValue(key SvcParamKey, raw string) ([]byte, error) {
	field := key.String()
	switch key {
	case SvcParamMandatory:
		var keys []SvcParamKey
		for _, name := range splitList(raw) {
			k, err := ParseSvcParamKey(name)
			if err != nil {
				return nil, err
			}
			if k == SvcParamMandatory {
				return nil, fieldError(field, fmt.Errorf("mandatory cannot list itself"))
			}
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var out []byte
		for i, k := range keys {
			if i > 0 && keys[i-1] == k {
				return nil, fieldError(field, fmt.Errorf("duplicate key %s", k))
			}
			out = binary.BigEndian.AppendUint16(out, uint16(k))
		}
		return out, nil
	case SvcParamALPN:
		var out []byte
		for _, id := range splitList(raw) {
			if id == "" {
				return nil, fieldError(field, fmt.Errorf("empty protocol id"))
			}
			b, err := encodeCharacterString(field, id)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	case SvcParamNoDefaultALPN:
		return nil, nil
	case SvcParamPort:
		port, err := parseUint(field, raw, 16)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint16(nil, uint16(port)), nil
	case SvcParamIPv4Hint, SvcParamIPv6Hint:
		var out []byte
		for _, s := range splitList(raw) {
			addr, err := netip.ParseAddr(s)
			if err != nil {
				return nil, fieldError(field, err)
			}
			if key == SvcParamIPv4Hint {
				if !addr.Is4() {
					return nil, fieldError(field, fmt.Errorf("%s is not an IPv4 address", s))
				}
				b := addr.As4()
				out = append(out, b[:]...)
				continue
			}
			if !addr.Is6() || addr.Zone() != "" {
				return nil, fieldError(field, fmt.Errorf("%s is not an IPv6 address", s))
			}
			b := addr.As16()
			out = append(out, b[:]...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedParameter, key)
}

func decodeSVCBData(b []byte) (string, error) {
	if len(b) < 3 {
		return "", fmt.Errorf("invalid SVCB data length: %d", len(b))
	}
	prio := binary.BigEndian.Uint16(b[:2])
	target, offset, err := decodeDomainName(b, 2)
	if err != nil {
		return "", fmt.Errorf("invalid SVCB target: %w", err)
	}
	out := []string{strconv.Itoa(int(prio)), target}
	for offset < len(b) {
		if offset+4 > len(b) {
			return "", fmt.Errorf("truncated service parameter header")
		}
		key := SvcParamKey(binary.BigEndian.Uint16(b[offset:]))
		l := int(binary.BigEndian.Uint16(b[offset+2:]))
		offset += 4
		if offset+l > len(b) {
			return "", fmt.Errorf("service parameter %s runs past rdata", key)
		}
		value, err := decodeSvcParamValue(key, b[offset:offset+l])
		if err != nil {
			return "", err
		}
		offset += l
		out = append(out, key.String())
		if key != SvcParamNoDefaultALPN {
			out = append(out, value)
		}
	}
	return strings.Join(out, "\n"), nil
}

func decodeSvcParamValue(key SvcParamKey, v []byte) (string, error) {
	var items []string
	switch key {
	case SvcParamMandatory:
		if len(v)%2 != 0 {
			return "", fmt.Errorf("mandatory value has odd length %d", len(v))
		}
		for i := 0; i < len(v); i += 2 {
			items = append(items, SvcParamKey(binary.BigEndian.Uint16(v[i:])).String())
		}
	case SvcParamALPN:
		for offset := 0; offset < len(v); {
			s, next, err := decodeCharacterString(v, offset)
			if err != nil {
				return "", err
			}
			items = append(items, s)
			offset = next
		}
	case SvcParamNoDefaultALPN:
		if len(v) != 0 {
			return "", fmt.Errorf("no-default-alpn carries %d bytes", len(v))
		}
	case SvcParamPort:
		if len(v) != 2 {
			return "", fmt.Errorf("port value has length %d", len(v))
		}
		items = append(items, strconv.Itoa(int(binary.BigEndian.Uint16(v))))
	case SvcParamIPv4Hint:
		if len(v) == 0 || len(v)%4 != 0 {
			return "", fmt.Errorf("ipv4hint value has length %d", len(v))
		}
		for i := 0; i < len(v); i += 4 {
			items = append(items, netip.AddrFrom4([4]byte(v[i:i+4])).String())
		}
	case SvcParamIPv6Hint:
		if len(v) == 0 || len(v)%16 != 0 {
			return "", fmt.Errorf("ipv6hint value has length %d", len(v))
		}
		for i := 0; i < len(v); i += 16 {
			items = append(items, netip.AddrFrom16([16]byte(v[i:i+16])).String())
		}
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedParameter, key)
	}
	return strings.Join(items, ","), nil
}
