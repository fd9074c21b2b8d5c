// Package rrdata translates between the textual record bodies stored in the zone directory
// and wire-format RDATA. Each supported type owns one codec in a closed registry.
package rrdata

import (
	"fmt"

	"github.com/haukened/dirdns/internal/dns/domain"
)

// codec is the per-type pair of body→rdata and rdata→body functions.
type codec struct {
	encode func(body string) ([]byte, error)
	decode func(rdata []byte) (string, error)
}

var registry = map[domain.RRType]codec{
	domain.RRTypeA:     {encodeAData, decodeAData},
	domain.RRTypeNS:    {encodeNSData, decodeNSData},
	domain.RRTypeCNAME: {encodeCNAMEData, decodeCNAMEData},
	domain.RRTypeSOA:   {encodeSOAData, decodeSOAData},
	domain.RRTypePTR:   {encodePTRData, decodePTRData},
	domain.RRTypeHINFO: {encodeHINFOData, decodeHINFOData},
	domain.RRTypeMX:    {encodeMXData, decodeMXData},
	domain.RRTypeTXT:   {encodeTXTData, decodeTXTData},
	domain.RRTypeAAAA:  {encodeAAAAData, decodeAAAAData},
	domain.RRTypeSRV:   {encodeSRVData, decodeSRVData},
	domain.RRTypeSSHFP: {encodeSSHFPData, decodeSSHFPData},
	domain.RRTypeSVCB:  {encodeSVCBData, decodeSVCBData},
	domain.RRTypeHTTPS: {encodeSVCBData, decodeSVCBData},
	domain.RRTypeCAA:   {encodeCAAData, decodeCAAData},
}

// Encode encodes a record body based on its type, to its binary representation.
// Body failures wrap domain.ErrMalformedRecordBody or domain.ErrUnsupportedParameter;
// a type without a codec yields domain.ErrUnsupportedType.
func Encode(rrType domain.RRType, body string) ([]byte, error) {
	c, ok := registry[rrType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, rrType)
	}
	b, err := c.encode(body)
	if err != nil {
		return nil, fmt.Errorf("%s record: %w", rrType, err)
	}
	return b, nil
}
