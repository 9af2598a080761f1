package nfc

import (
	"regexp"
	"strings"
)

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// NDEF TLV and record constants
const (
	tlvNDEFMessage = 0x03 // NDEF message TLV tag
	tlvTerminator  = 0xFE

	recordFlagSR = 0x10 // Short record: 1-byte payload length

	typeText = 'T'
	typeURI  = 'U'
)

// uriPrefixes maps the URI record prefix code to its expansion,
// per the NDEF URI record type definition.
var uriPrefixes = []string{
	"", "http://www.", "https://www.", "http://", "https://",
	"tel:", "mailto:",
}

// ExtractCandidate pulls a card identifier out of raw tag bytes. It
// parses the NDEF message if one is present and prefers a UUID found in
// a text or URI record; otherwise it falls back to the record text, and
// finally to the supplied serial.
func ExtractCandidate(raw []byte, serial string) string {
	if text, ok := ParsePayload(raw); ok {
		if id := uuidPattern.FindString(text); id != "" {
			return strings.ToLower(id)
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	// Some tags carry a bare UUID outside any NDEF structure
	if id := uuidPattern.FindString(string(raw)); id != "" {
		return strings.ToLower(id)
	}
	return serial
}

// ParsePayload decodes the first text or URI record of an NDEF message.
// Returns false when the bytes hold no parseable record; malformed input
// never panics, it just fails the parse.
func ParsePayload(raw []byte) (string, bool) {
	// Locate the NDEF message TLV
	i := 0
	for i < len(raw) && raw[i] != tlvNDEFMessage {
		if raw[i] == tlvTerminator {
			return "", false
		}
		i++
	}
	if i+1 >= len(raw) {
		return "", false
	}
	msgLen := int(raw[i+1])
	msg := raw[i+2:]
	if msgLen < len(msg) {
		msg = msg[:msgLen]
	}
	return parseRecord(msg)
}

// parseRecord decodes a single short-form NDEF record
func parseRecord(msg []byte) (string, bool) {
	if len(msg) < 3 {
		return "", false
	}
	header := msg[0]
	if header&recordFlagSR == 0 {
		// Long records do not fit on the 16-byte reads the terminal does
		return "", false
	}
	typeLen := int(msg[1])
	payloadLen := int(msg[2])
	offset := 3
	if len(msg) < offset+typeLen+payloadLen || typeLen < 1 {
		return "", false
	}
	recType := msg[offset]
	payload := msg[offset+typeLen : offset+typeLen+payloadLen]
	switch recType {
	case typeText:
		// First byte: encoding flag and language code length
		if len(payload) < 1 {
			return "", false
		}
		langLen := int(payload[0] & 0x3F)
		if len(payload) < 1+langLen {
			return "", false
		}
		return string(payload[1+langLen:]), true
	case typeURI:
		if len(payload) < 1 {
			return "", false
		}
		prefix := ""
		if int(payload[0]) < len(uriPrefixes) {
			prefix = uriPrefixes[payload[0]]
		}
		return prefix + string(payload[1:]), true
	}
	return "", false
}

// LooksLikeUUID reports whether the candidate matches the UUID pattern
func LooksLikeUUID(s string) bool {
	return uuidPattern.MatchString(s) && len(s) == 36
}
