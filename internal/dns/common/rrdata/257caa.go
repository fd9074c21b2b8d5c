package rrdata

import (
	"fmt"
	"strings"
)

// encodeCAAData encodes a CAA record body into its binary representation.
// The body is "<flags> <tag>\n<value>", and a first line holding only the tag is accepted
// too, as is the single-line form `0 issue "letsencrypt.org"`. The flags field must be a
// valid octet but the encoded flags are always 0.
func encodeCAAData(body string) ([]byte, error) {
	ls := lines(body)
	if len(ls) == 0 {
		return nil, fieldError("body", fmt.Errorf("expected flags, tag and value"))
	}
	head := strings.Fields(ls[0])
	var value string
	switch {
	case len(ls) == 1 && len(head) >= 3:
		value = strings.Trim(strings.Join(head[2:], " "), "\"")
		head = head[:2]
	case len(ls) >= 2:
		value = strings.Join(ls[1:], "\n")
	default:
		return nil, fieldError("value", fmt.Errorf("missing"))
	}

	var tag string
	switch len(head) {
	case 1:
		tag = head[0]
	case 2:
		if _, err := parseUint("flags", head[0], 8); err != nil {
			return nil, err
		}
		tag = head[1]
	default:
		return nil, fieldError("tag", fmt.Errorf("expected \"<flags> <tag>\", got %q", ls[0]))
	}
	if err := validateCAATag(tag); err != nil {
		return nil, fieldError("tag", err)
	}

	// 1 byte flags + 1 byte tag length + tag + value
	encoded := make([]byte, 0, 2+len(tag)+len(value))
	encoded = append(encoded, 0, byte(len(tag)))
	encoded = append(encoded, tag...)
	return append(encoded, value...), nil
}

// validateCAATag enforces RFC 8659 §4.1: 1 to 255 ASCII letters and digits.
func validateCAATag(tag string) error {
	if tag == "" || len(tag) > maxCharacterString {
		return fmt.Errorf("length %d out of range", len(tag))
	}
	for _, c := range tag {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return fmt.Errorf("invalid character %q in %q", c, tag)
		}
	}
	return nil
}

// decodeCAAData decodes the binary representation of a CAA record into its body format.
func decodeCAAData(data []byte) (string, error) {
	if len(data) < 2 {
		return "", fmt.Errorf("invalid CAA record length: %d", len(data))
	}
	flag := data[0]
	tagLen := int(data[1])
	if len(data) < 2+tagLen {
		return "", fmt.Errorf("invalid CAA tag length: %d", tagLen)
	}
	tag := string(data[2 : 2+tagLen])
	// The value is opaque: a CA domain for issue/issuewild, a URI for iodef.
	value := string(data[2+tagLen:])
	return fmt.Sprintf("%d %s\n%s", flag, tag, value), nil
}
