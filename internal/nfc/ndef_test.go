package nfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textRecord builds an NDEF message TLV holding one short text record
func textRecord(text string) []byte {
	payload := append([]byte{0x02, 'e', 'n'}, []byte(text)...)
	record := []byte{0xD1, 0x01, byte(len(payload)), 'T'}
	record = append(record, payload...)
	msg := []byte{tlvNDEFMessage, byte(len(record))}
	msg = append(msg, record...)
	return append(msg, tlvTerminator)
}

// uriRecord builds an NDEF message TLV holding one short URI record
func uriRecord(prefixCode byte, rest string) []byte {
	payload := append([]byte{prefixCode}, []byte(rest)...)
	record := []byte{0xD1, 0x01, byte(len(payload)), 'U'}
	record = append(record, payload...)
	msg := []byte{tlvNDEFMessage, byte(len(record))}
	msg = append(msg, record...)
	return append(msg, tlvTerminator)
}

func TestParsePayload_TextRecord(t *testing.T) {
	text, ok := ParsePayload(textRecord("hello"))
	require.True(t, ok)
	assert.Equal(t, "hello", text)
}

func TestParsePayload_URIRecord(t *testing.T) {
	text, ok := ParsePayload(uriRecord(0x04, "pay.example.com/w/abc"))
	require.True(t, ok)
	assert.Equal(t, "https://pay.example.com/w/abc", text)
}

func TestParsePayload_Garbage(t *testing.T) {
	// Malformed input fails the parse without panicking
	cases := [][]byte{
		nil,
		{},
		{0xFE},
		{0x03},
		{0x03, 0xFF, 0xD1},
		{0x03, 0x04, 0xD1, 0x01, 0xFF, 'T'},
	}
	for _, raw := range cases {
		_, ok := ParsePayload(raw)
		assert.False(t, ok)
	}
}

func TestExtractCandidate_PrefersUUIDInText(t *testing.T) {
	id := "9f1c2f4e-6d7a-4b8e-9c3d-2a1b0c4d5e6f"
	got := ExtractCandidate(textRecord("wallet:"+id), "04a2246b")
	assert.Equal(t, id, got)
}

func TestExtractCandidate_UppercaseUUIDLowered(t *testing.T) {
	got := ExtractCandidate(textRecord("9F1C2F4E-6D7A-4B8E-9C3D-2A1B0C4D5E6F"), "04a2246b")
	assert.Equal(t, "9f1c2f4e-6d7a-4b8e-9c3d-2a1b0c4d5e6f", got)
}

func TestExtractCandidate_TextFallback(t *testing.T) {
	got := ExtractCandidate(textRecord("member-42"), "04a2246b")
	assert.Equal(t, "member-42", got)
}

func TestExtractCandidate_SerialFallback(t *testing.T) {
	// No NDEF data at all: the raw serial is the candidate
	got := ExtractCandidate([]byte{0x00, 0x01, 0x02}, "04a2246b")
	assert.Equal(t, "04a2246b", got)
}

func TestExtractCandidate_BareUUIDOutsideNDEF(t *testing.T) {
	id := "9f1c2f4e-6d7a-4b8e-9c3d-2a1b0c4d5e6f"
	got := ExtractCandidate([]byte(id), "04a2246b")
	assert.Equal(t, id, got)
}

func TestLooksLikeUUID(t *testing.T) {
	assert.True(t, LooksLikeUUID("9f1c2f4e-6d7a-4b8e-9c3d-2a1b0c4d5e6f"))
	assert.False(t, LooksLikeUUID("04a2246b"))
	assert.False(t, LooksLikeUUID("not-a-uuid"))
}
