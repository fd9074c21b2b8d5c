package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dirdns/internal/dns/domain"
)

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.Name
		want    []byte
		wantErr bool
	}{
		{name: "root", input: nil, want: []byte{0}},
		{name: "two labels", input: domain.Name{"example", "com"}, want: append(append([]byte{7}, "example"...), append([]byte{3}, "com\x00"...)...)},
		{name: "label too long", input: domain.Name{strings.Repeat("a", 64), "com"}, wantErr: true},
		{name: "empty label", input: domain.Name{"www", "", "com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeName_RoundTrip(t *testing.T) {
	for _, count := range []int{0, 1, 2, 3, 64, 127} {
		labels := make([]string, count)
		for i := range labels {
			labels[i] = string(rune('a' + i%26))
		}
		n := domain.NewName(labels...)

		encoded, err := EncodeName(n)
		require.NoError(t, err, "labels=%d", count)

		decoded, next, err := DecodeName(encoded, 0)
		require.NoError(t, err, "labels=%d", count)
		assert.Equal(t, n, decoded)
		assert.Equal(t, len(encoded), next)
	}
}

func TestDecodeName_MixedCaseIsPreserved(t *testing.T) {
	encoded, err := EncodeName(domain.Name{"WwW", "Example", "COM"})
	require.NoError(t, err)
	decoded, _, err := DecodeName(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Name{"WwW", "Example", "COM"}, decoded)
	assert.True(t, decoded.Equal(domain.Name{"www", "example", "com"}))
}

func TestDecodeName_Errors(t *testing.T) {
	tooLong := make([]byte, 0, 300)
	for i := 0; i < 5; i++ {
		tooLong = append(tooLong, 63)
		tooLong = append(tooLong, strings.Repeat("x", 63)...)
	}
	tooLong = append(tooLong, 0)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty buffer", data: nil},
		{name: "compression pointer", data: []byte{0xC0, 0x0C}},
		{name: "label length over 63", data: []byte{64}},
		{name: "label runs past end", data: []byte{5, 'a', 'b'}},
		{name: "missing terminator", data: []byte{3, 'c', 'o', 'm'}},
		{name: "name over 255 octets", data: tooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeName(tt.data, 0)
			assert.ErrorIs(t, err, domain.ErrMalformedName)
		})
	}
}

func TestDecodeName_Offset(t *testing.T) {
	data := []byte{0xFF, 0xFF, 3, 'c', 'o', 'm', 0, 0xAA}
	n, next, err := DecodeName(data, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Name{"com"}, n)
	assert.Equal(t, 7, next)
}
