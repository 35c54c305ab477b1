package gateway

import (
	"math/rand"
	"strconv"
	"time"
)

const sessionAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID returns session_<unix millis>_<9 random base36 chars>.
// Collisions are unlikely but not ruled out.
func NewSessionID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = sessionAlphabet[rand.Intn(len(sessionAlphabet))]
	}
	return "session_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + string(suffix)
}
