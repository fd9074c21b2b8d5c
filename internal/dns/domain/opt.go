package domain

import "fmt"

// MinUDPPayloadSize is the classic DNS datagram limit and the floor for advertised EDNS sizes.
const MinUDPPayloadSize = 512

// OPT is the EDNS(0) pseudo-record (RFC 6891). On the wire it travels as a ResourceRecord of
// type OPT whose CLASS carries the payload size and whose TTL carries the extended rcode,
// version and DO bit.
type OPT struct {
	UDPSize       uint16
	ExtendedRCode uint8
	Version       uint8
	DNSSECOk      bool
	Options       []byte
}

const doBit = 1 << 15

// Record packs the OPT into its ResourceRecord form with the root owner name.
func (o OPT) Record() ResourceRecord {
	ttl := uint32(o.ExtendedRCode)<<24 | uint32(o.Version)<<16
	if o.DNSSECOk {
		ttl |= doBit
	}
	return ResourceRecord{
		Name:  nil,
		Type:  RRTypeOPT,
		Class: RRClass(o.UDPSize),
		TTL:   ttl,
		Data:  o.Options,
	}
}

// OPTFromRecord unpacks an OPT pseudo-record.
func OPTFromRecord(rr ResourceRecord) (OPT, error) {
	if rr.Type != RRTypeOPT {
		return OPT{}, fmt.Errorf("%w: record type %s is not OPT", ErrMalformedMessage, rr.Type)
	}
	if !rr.Name.IsRoot() {
		return OPT{}, fmt.Errorf("%w: OPT owner must be the root", ErrMalformedMessage)
	}
	return OPT{
		UDPSize:       uint16(rr.Class),
		ExtendedRCode: uint8(rr.TTL >> 24),
		Version:       uint8(rr.TTL >> 16),
		DNSSECOk:      rr.TTL&doBit != 0,
		Options:       rr.Data,
	}, nil
}

// EffectiveUDPSize returns the advertised payload size, never less than 512.
func (o OPT) EffectiveUDPSize() int {
	if int(o.UDPSize) < MinUDPPayloadSize {
		return MinUDPPayloadSize
	}
	return int(o.UDPSize)
}

// FindOPT returns the single OPT record in the additional section. It reports false when none
// is present and fails with ErrMalformedMessage when there is more than one.
func (m Message) FindOPT() (OPT, bool, error) {
	var (
		found OPT
		seen  bool
	)
	for _, rr := range m.Additional {
		if rr.Type != RRTypeOPT {
			continue
		}
		if seen {
			return OPT{}, false, fmt.Errorf("%w: more than one OPT record", ErrMalformedMessage)
		}
		o, err := OPTFromRecord(rr)
		if err != nil {
			return OPT{}, false, err
		}
		found, seen = o, true
	}
	return found, seen, nil
}
