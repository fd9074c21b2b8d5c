package domain

import (
	"fmt"
	"strings"
)

// RRType represents a DNS resource record type (e.g. A, MX, HTTPS).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// DNS Resource Record Type constants
const (
	RRTypeA     RRType = 1   // A - IPv4 address
	RRTypeNS    RRType = 2   // NS - Name server
	RRTypeCNAME RRType = 5   // CNAME - Canonical name
	RRTypeSOA   RRType = 6   // SOA - Start of authority
	RRTypePTR   RRType = 12  // PTR - Pointer
	RRTypeHINFO RRType = 13  // HINFO - Host information
	RRTypeMX    RRType = 15  // MX - Mail exchange
	RRTypeTXT   RRType = 16  // TXT - Text
	RRTypeAAAA  RRType = 28  // AAAA - IPv6 address
	RRTypeSRV   RRType = 33  // SRV - Service
	RRTypeOPT   RRType = 41  // OPT - EDNS option
	RRTypeSSHFP RRType = 44  // SSHFP - SSH key fingerprint
	RRTypeSVCB  RRType = 64  // SVCB - Service binding
	RRTypeHTTPS RRType = 65  // HTTPS - HTTPS binding
	RRTypeANY   RRType = 255 // ANY - All records (query only)
	RRTypeCAA   RRType = 257 // CAA - Certificate authority authorization
)

var rrTypeNames = map[RRType]string{
	RRTypeA:     "A",
	RRTypeNS:    "NS",
	RRTypeCNAME: "CNAME",
	RRTypeSOA:   "SOA",
	RRTypePTR:   "PTR",
	RRTypeHINFO: "HINFO",
	RRTypeMX:    "MX",
	RRTypeTXT:   "TXT",
	RRTypeAAAA:  "AAAA",
	RRTypeSRV:   "SRV",
	RRTypeOPT:   "OPT",
	RRTypeSSHFP: "SSHFP",
	RRTypeSVCB:  "SVCB",
	RRTypeHTTPS: "HTTPS",
	RRTypeANY:   "ANY",
	RRTypeCAA:   "CAA",
}

// IsValid returns true if the RRType is one of the known types.
func (t RRType) IsValid() bool {
	_, ok := rrTypeNames[t]
	return ok
}

// IsQueryOnly reports whether the type may only appear in a question or as a pseudo-record.
func (t RRType) IsQueryOnly() bool {
	return t == RRTypeANY || t == RRTypeOPT
}

// String returns the textual representation of the RRType, which is also
// the extension used for record files in the zone store.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	if name, ok := rrTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// RRTypeFromString converts a record type string to its corresponding RRType value.
// Matching is case-insensitive; "*" is accepted as an alias for ANY.
func RRTypeFromString(s string) RRType {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "*" {
		return RRTypeANY
	}
	for t, name := range rrTypeNames {
		if name == s {
			return t
		}
	}
	return 0 // invalid/unknown
}
