package security

import (
	"crypto/rand"
	"encoding/hex"
)

// PlaylistTokenBytes is the entropy of a generated token value; the hex
// encoding doubles it to 64 characters, matching the column width.
const PlaylistTokenBytes = 32

// GeneratePlaylistToken returns a cryptographically random opaque bearer
// value for a device's playlist token.
func GeneratePlaylistToken() (string, error) {
	b := make([]byte, PlaylistTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
