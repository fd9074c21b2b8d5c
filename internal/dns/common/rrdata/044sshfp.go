package rrdata

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// SSHFP algorithm numbers (RFC 4255, RFC 6594, RFC 7479, RFC 8709).
var sshfpAlgorithms = map[string]uint8{
	"RSA":     1,
	"DSA":     2,
	"ECDSA":   3,
	"ED25519": 4,
	"ED448":   6,
}

// SSHFP fingerprint types (RFC 4255, RFC 6594).
var sshfpTypes = map[string]uint8{
	"SHA1":   1,
	"SHA256": 2,
}

// lookupCode resolves a mnemonic or a decimal code.
func lookupCode(field, s string, table map[string]uint8) (uint8, error) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	if code, ok := table[s]; ok {
		return code, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fieldError(field, fmt.Errorf("unknown value %q", s))
	}
	return uint8(v), nil
}

func codeName(code uint8, table map[string]uint8) string {
	for name, c := range table {
		if c == code {
			return name
		}
	}
	return strconv.Itoa(int(code))
}

// encodeSSHFPData encodes an SSHFP record body ("<algorithm>\n<fp-type>\n<hex>").
func encodeSSHFPData(body string) ([]byte, error) {
	parts, err := tokens(body, 3, "algorithm", "fingerprint type", "fingerprint")
	if err != nil {
		return nil, err
	}
	alg, err := lookupCode("algorithm", parts[0], sshfpAlgorithms)
	if err != nil {
		return nil, err
	}
	fpType, err := lookupCode("fingerprint type", parts[1], sshfpTypes)
	if err != nil {
		return nil, err
	}
	fp, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fieldError("fingerprint", err)
	}
	if len(fp) == 0 {
		return nil, fieldError("fingerprint", fmt.Errorf("empty"))
	}
	return append([]byte{alg, fpType}, fp...), nil
}

func decodeSSHFPData(b []byte) (string, error) {
	if len(b) < 3 {
		return "", fmt.Errorf("invalid SSHFP data length: %d", len(b))
	}
	return fmt.Sprintf("%s\n%s\n%s",
		codeName(b[0], sshfpAlgorithms),
		codeName(b[1], sshfpTypes),
		hex.EncodeToString(b[2:])), nil
}
