package rrdata

// encodePTRData encodes a PTR record body into its binary representation.
func encodePTRData(body string) ([]byte, error) {
	// body = "host.example.com"
	return encodeSingleName("pointer", body)
}

func decodePTRData(b []byte) (string, error) {
	return decodeSingleName(b)
}
