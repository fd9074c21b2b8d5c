package domain

import (
	"fmt"
	"strings"
)

const (
	// MaxLabelLength is the longest permitted label, in octets.
	MaxLabelLength = 63
	// MaxNameLength is the longest permitted wire-encoded name, in octets, including the root byte.
	MaxNameLength = 255
)

// Name is a domain name as a sequence of labels, most specific first.
// The root name is the empty sequence. Labels are kept as received;
// comparisons are case-insensitive.
type Name []string

// NewName builds a Name from labels. With no labels it returns the root name.
func NewName(labels ...string) Name {
	if len(labels) == 0 {
		return nil
	}
	return Name(labels)
}

// ParseName converts a presentation-format name ("www.example.com." or "www.example.com")
// into a Name. "" and "." both denote the root.
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return nil, nil
	}
	n := Name(strings.Split(s, "."))
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks label and total length limits.
func (n Name) Validate() error {
	for _, label := range n {
		if label == "" {
			return fmt.Errorf("%w: empty label in %q", ErrMalformedName, n.String())
		}
		if len(label) > MaxLabelLength {
			return fmt.Errorf("%w: label %q exceeds %d octets", ErrMalformedName, label, MaxLabelLength)
		}
	}
	if n.WireLength() > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d octets", ErrMalformedName, MaxNameLength)
	}
	return nil
}

// WireLength returns the uncompressed encoded length of the name.
func (n Name) WireLength() int {
	size := 1
	for _, label := range n {
		size += 1 + len(label)
	}
	return size
}

// IsRoot reports whether n is the root name.
func (n Name) IsRoot() bool {
	return len(n) == 0
}

// HasWildcard reports whether any label is the "*" wildcard label.
func (n Name) HasWildcard() bool {
	for _, label := range n {
		if label == "*" {
			return true
		}
	}
	return false
}

// Equal compares two names ignoring ASCII case.
func (n Name) Equal(other Name) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if !strings.EqualFold(n[i], other[i]) {
			return false
		}
	}
	return true
}

// Lower returns a lowercased copy of the name.
func (n Name) Lower() Name {
	if n == nil {
		return nil
	}
	out := make(Name, len(n))
	for i, label := range n {
		out[i] = strings.ToLower(label)
	}
	return out
}

// String returns the fully qualified presentation form, ending in a dot.
func (n Name) String() string {
	if n.IsRoot() {
		return "."
	}
	return strings.Join(n, ".") + "."
}
