package logger

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var counter uint64

// GenerateRequestID generates a unique request ID.
// Format: timestamp-counter-random, e.g. 20260831102830-000001-a3f2b1
func GenerateRequestID() string {
	timestamp := time.Now().Format("20060102150405")
	count := atomic.AddUint64(&counter, 1)

	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)

	return fmt.Sprintf("%s-%06d-%s", timestamp, count, hex.EncodeToString(randomBytes))
}
