// Package nfc decodes raw ACR122U card reader frames posted by the
// point-of-sale client. The client polls the reader over USB and sends
// each response frame here untouched; decoding and card extraction
// happen server-side so the terminal stays dumb.
package nfc

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// CCID frame layout constants
const (
	msgTypeDataBlock = 0x80 // RDR_to_PC_DataBlock message type
	ccidHeaderLen    = 10   // Fixed CCID header preceding the APDU payload

	// ACR122U reader vendor id, echoed back by the client for device matching
	VendorIDACR122U = 0x072F
)

// APDU status word for a successful command
const (
	sw1OK = 0x90
	sw2OK = 0x00
)

// ErrNoCard is returned for any frame that does not carry a valid card
// response: short or garbage input, wrong message type, a non-90 00
// status word, or an all-zero UID. The poller treats it as "keep polling".
var ErrNoCard = errors.New("no card")

// DecodeUIDFrame parses a CCID RDR_to_PC_DataBlock frame holding the
// response to the Get UID APDU (FF CA 00 00 00) and returns the card
// serial as lowercase hex. A successful decode is the client's signal
// to stop its poll loop.
func DecodeUIDFrame(frame []byte) (string, error) {
	payload, err := dataBlockPayload(frame)
	if err != nil {
		return "", err
	}
	if len(payload) < 3 {
		// Need at least one UID byte plus the status word
		return "", fmt.Errorf("%w: response too short", ErrNoCard)
	}
	if payload[len(payload)-2] != sw1OK || payload[len(payload)-1] != sw2OK {
		return "", fmt.Errorf("%w: status word %02X %02X", ErrNoCard, payload[len(payload)-2], payload[len(payload)-1])
	}
	uid := payload[:len(payload)-2]
	if allZero(uid) {
		return "", fmt.Errorf("%w: zero uid", ErrNoCard)
	}
	return hex.EncodeToString(uid), nil
}

// DecodeNDEFFrame parses a CCID frame holding the response to the NDEF
// read APDU (FF B0 00 04 10) and returns the raw tag bytes with the
// status word stripped.
func DecodeNDEFFrame(frame []byte) ([]byte, error) {
	payload, err := dataBlockPayload(frame)
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("%w: response too short", ErrNoCard)
	}
	if payload[len(payload)-2] != sw1OK || payload[len(payload)-1] != sw2OK {
		return nil, fmt.Errorf("%w: status word %02X %02X", ErrNoCard, payload[len(payload)-2], payload[len(payload)-1])
	}
	return payload[:len(payload)-2], nil
}

// dataBlockPayload validates the CCID envelope and returns the APDU response bytes
func dataBlockPayload(frame []byte) ([]byte, error) {
	if len(frame) < ccidHeaderLen {
		return nil, fmt.Errorf("%w: frame shorter than CCID header", ErrNoCard)
	}
	if frame[0] != msgTypeDataBlock {
		return nil, fmt.Errorf("%w: unexpected message type %02X", ErrNoCard, frame[0])
	}
	// Bytes 1-4 are the little-endian payload length
	n := binary.LittleEndian.Uint32(frame[1:5])
	if int(n) > len(frame)-ccidHeaderLen {
		return nil, fmt.Errorf("%w: truncated payload", ErrNoCard)
	}
	return frame[ccidHeaderLen : ccidHeaderLen+int(n)], nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
