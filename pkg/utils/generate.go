package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== BOOKING REFERENCE ====================

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBookingReference creates a reference like BK827345X1Q9:
// "BK" + last 6 digits of the unix timestamp + 4 random chars.
func GenerateBookingReference() string {
	timestamp := time.Now().Unix() % 1000000

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BK%06d", timestamp))
	for i := 0; i < 4; i++ {
		sb.WriteByte(referenceAlphabet[rand.Intn(len(referenceAlphabet))])
	}

	return sb.String()
}

// ==================== TRANSACTION ID ====================

// GenerateTransactionID creates a mock gateway id like txn_1a2b3c4d5e6f.
func GenerateTransactionID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "txn_" + hex[:12]
}
