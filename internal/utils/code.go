package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateBookingCode returns a human-readable booking code like HRE-2025-483901.
func GenerateBookingCode(now time.Time) string {
	return fmt.Sprintf("HRE-%d-%06d", now.Year(), rand.Intn(1_000_000))
}
