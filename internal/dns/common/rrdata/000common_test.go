package rrdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dirdns/internal/dns/domain"
)

func TestEncodeDomainName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "simple domain",
			input: "Foo.Example.com.",
			want:  []byte{3, 'f', 'o', 'o', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0},
		},
		{
			name:  "trailing dot omitted",
			input: "Foo.Example.com",
			want:  []byte{3, 'f', 'o', 'o', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0},
		},
		{
			name:  "root",
			input: ".",
			want:  []byte{0},
		},
		{
			name:  "internationalized",
			input: "bücher.de",
			want:  append(append([]byte{13}, "xn--bcher-kva"...), 2, 'd', 'e', 0),
		},
		{name: "empty string", input: " ", wantErr: true},
		{name: "label too long", input: strings.Repeat("A", 64) + ".COM.", wantErr: true},
		{name: "multiple consecutive dots", input: "foo..example.com.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeDomainName("name", tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedRecordBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLines(t *testing.T) {
	assert.Nil(t, lines(""))
	assert.Nil(t, lines(" \n\n"))
	assert.Equal(t, []string{"10", "mail.example.com"}, lines("10\r\nmail.example.com\r\n\n"))
	assert.Equal(t, []string{"a", "", "b"}, lines(" a \n\n b"))
}

func TestTokens(t *testing.T) {
	got, err := tokens("10\nmail.example.com\n", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "mail.example.com"}, got)

	got, err = tokens("10 mail.example.com", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "mail.example.com"}, got)

	_, err = tokens("10", 2, "preference", "exchange")
	assert.ErrorIs(t, err, domain.ErrMalformedRecordBody)
	assert.Contains(t, err.Error(), "preference, exchange")
}

func TestCharacterString(t *testing.T) {
	b, err := encodeCharacterString("s", "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 'h', 'e', 'l', 'l', 'o'}, b)

	s, next, err := decodeCharacterString(b, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 6, next)

	_, err = encodeCharacterString("s", strings.Repeat("x", 256))
	assert.ErrorIs(t, err, domain.ErrMalformedRecordBody)

	_, _, err = decodeCharacterString([]byte{4, 'a'}, 0)
	assert.Error(t, err)
}
