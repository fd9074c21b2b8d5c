package rrdata

import (
	"fmt"

	"github.com/haukened/dirdns/internal/dns/domain"
)

// Decode decodes wire-format rdata back into the body text Encode accepts.
func Decode(rrType domain.RRType, rdata []byte) (string, error) {
	c, ok := registry[rrType]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, rrType)
	}
	s, err := c.decode(rdata)
	if err != nil {
		return "", fmt.Errorf("%s rdata: %w", rrType, err)
	}
	return s, nil
}
