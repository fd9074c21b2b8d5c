package domain

import "fmt"

// ResourceRecord is the generic envelope of a DNS resource record (RFC 1035 §4.1.3).
// Data holds the wire-encoded RDATA; its interpretation depends on Type and lives in the
// rrdata package. For OPT pseudo-records Class and TTL carry EDNS fields instead.
type ResourceRecord struct {
	Name  Name
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte
}

// NewAuthoritativeResourceRecord constructs a ResourceRecord served from the zone store.
func NewAuthoritativeResourceRecord(name Name, rrtype RRType, class RRClass, ttl uint32, data []byte) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  name,
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		Data:  data,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid answer data.
func (rr ResourceRecord) Validate() error {
	if rr.Name.IsRoot() {
		return fmt.Errorf("record name must not be empty")
	}
	if err := rr.Name.Validate(); err != nil {
		return err
	}
	if !rr.Type.IsValid() || rr.Type.IsQueryOnly() {
		return fmt.Errorf("invalid RRType: %d", rr.Type)
	}
	if !rr.Class.IsValid() {
		return fmt.Errorf("invalid RRClass: %d", rr.Class)
	}
	if len(rr.Data) > 0xFFFF {
		return fmt.Errorf("record data too large: %d bytes", len(rr.Data))
	}
	return nil
}

// String renders the envelope in dig-like form for logs; the rdata is shown as its length.
func (rr ResourceRecord) String() string {
	return fmt.Sprintf("%s %d %s %s (%d bytes)", rr.Name, rr.TTL, rr.Class, rr.Type, len(rr.Data))
}
