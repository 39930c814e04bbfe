package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	opText  = 1
	opClose = 8

	finBit  = 0x80
	maskBit = 0x80

	// maxFramePayload bounds the client-declared payload length before any
	// allocation happens; intents are tiny JSON envelopes.
	maxFramePayload = 1 << 16
)

var errFrameTooLarge = errors.New("frame payload exceeds limit")

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	payload []byte
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()

	if err = writeFrame(conn.rw, frame{isFin: true, opCode: opText, payload: responseBytes}); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

func writeFrame(writer *bufio.ReadWriter, frameData frame) error {
	length := uint64(len(frameData.payload))

	header := make([]byte, 2, 10)
	header[0] = frameData.opCode
	if frameData.isFin {
		header[0] |= finBit
	}

	switch {
	case length < 126:
		header[1] = byte(length)
	case length < 1<<16:
		header[1] = 126
		header = binary.BigEndian.AppendUint16(header, uint16(length))
	default:
		header[1] = 127
		header = binary.BigEndian.AppendUint64(header, length)
	}

	if _, err := writer.Write(append(header, frameData.payload...)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

// readFrame - reads one client frame and returns its unmasked payload.
// A close frame is reported as io.EOF so the caller tears the connection down.
func readFrame(reader *bufio.ReadWriter) ([]byte, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	opCode := header[0] & 0x0f
	if opCode == opClose {
		return nil, io.EOF
	}

	masked := header[1]&maskBit != 0

	length, err := readPayloadLength(reader, header[1]&0x7f)
	if err != nil {
		return nil, err
	}

	if length > maxFramePayload {
		return nil, errFrameTooLarge
	}

	var mask []byte
	if masked {
		mask = make([]byte, 4)
		if _, err = io.ReadFull(reader, mask); err != nil {
			return nil, fmt.Errorf("failed to read mask: %w", err)
		}
	}

	payload := make([]byte, length)
	if _, err = io.ReadFull(reader, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if masked {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return payload, nil
}

func readPayloadLength(reader *bufio.ReadWriter, lengthByte byte) (uint64, error) {
	switch {
	case lengthByte < 126:
		return uint64(lengthByte), nil
	case lengthByte == 126:
		length := make([]byte, 2)
		if _, err := io.ReadFull(reader, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}

		return uint64(binary.BigEndian.Uint16(length)), nil
	default:
		length := make([]byte, 8)
		if _, err := io.ReadFull(reader, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}

		return binary.BigEndian.Uint64(length), nil
	}
}
