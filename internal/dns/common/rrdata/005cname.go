package rrdata

// encodeCNAMEData encodes a CNAME record body into its binary representation.
func encodeCNAMEData(body string) ([]byte, error) {
	// body = "app.example.com"
	return encodeSingleName("target", body)
}

func decodeCNAMEData(b []byte) (string, error) {
	return decodeSingleName(b)
}
