package utils

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// CanonicalDNSName returns a DNS name in canonical form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - Fully qualified with exactly one trailing dot, except for the empty string
func CanonicalDNSName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ToLower(strings.TrimRight(name, "."))
	if name == "" {
		return "."
	}
	return name + "."
}

// PresentationDNSName canonicalizes a name as written in a zone file. Names containing
// non-ASCII characters are converted to their punycode (xn--) form first.
func PresentationDNSName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !isASCII(name) {
		ascii, err := idna.Punycode.ToASCII(name)
		if err != nil {
			return "", fmt.Errorf("invalid internationalized name %q: %w", name, err)
		}
		name = ascii
	}
	return CanonicalDNSName(name), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
