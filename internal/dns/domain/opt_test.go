package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOPT_RecordRoundTrip(t *testing.T) {
	o := OPT{UDPSize: 1232, ExtendedRCode: 1, Version: 0, DNSSECOk: true, Options: []byte{0, 10, 0, 0}}
	rr := o.Record()

	assert.True(t, rr.Name.IsRoot())
	assert.Equal(t, RRTypeOPT, rr.Type)
	assert.Equal(t, RRClass(1232), rr.Class)
	assert.Equal(t, uint32(0x01008000), rr.TTL)

	back, err := OPTFromRecord(rr)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestOPTFromRecord_Rejects(t *testing.T) {
	_, err := OPTFromRecord(ResourceRecord{Type: RRTypeA})
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = OPTFromRecord(ResourceRecord{Name: Name{"com"}, Type: RRTypeOPT})
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestOPT_EffectiveUDPSize(t *testing.T) {
	assert.Equal(t, 512, OPT{UDPSize: 0}.EffectiveUDPSize())
	assert.Equal(t, 512, OPT{UDPSize: 100}.EffectiveUDPSize())
	assert.Equal(t, 4096, OPT{UDPSize: 4096}.EffectiveUDPSize())
}

func TestMessage_FindOPT(t *testing.T) {
	a := ResourceRecord{Name: Name{"example", "com"}, Type: RRTypeA, Class: RRClassIN, Data: []byte{1, 2, 3, 4}}
	opt := OPT{UDPSize: 4096}.Record()

	_, ok, err := Message{Additional: []ResourceRecord{a}}.FindOPT()
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := Message{Additional: []ResourceRecord{a, opt}}.FindOPT()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(4096), got.UDPSize)

	_, _, err = Message{Additional: []ResourceRecord{opt, opt}}.FindOPT()
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
