package pkg

import (
	"crypto/rand"
	"crypto/sha1" //nolint: gosec // mandated by RFC 6455
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const websocketMagicGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateSessionID - returns a 128-bit hex identifier. Session ids double as
// the broadcast-group key, so they must not be guessable by a third party.
func GenerateSessionID() string {
	return randomHex(16)
}

// GenerateConnectionID - returns an identifier for a freshly upgraded connection.
func GenerateConnectionID() string {
	return randomHex(16)
}

func randomHex(size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %w", err))
	}

	return hex.EncodeToString(buf)
}

// GenerateAcceptKey - computes the Sec-WebSocket-Accept value for a handshake key.
func GenerateAcceptKey(key string) string {
	hash := sha1.New() //nolint: gosec // mandated by RFC 6455
	hash.Write([]byte(key + websocketMagicGUID))

	return base64.StdEncoding.EncodeToString(hash.Sum(nil))
}
