package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// orderTokenBytes gives a 12-character hex token, unique enough at 2^48
// that collisions are handled by a store retry rather than prevented here.
const orderTokenBytes = 6

// NewOrderToken creates the human-presentable order token: 6 random bytes,
// hex-encoded, upper-cased. Consumers treat it as opaque and case-sensitive.
func NewOrderToken() (string, error) {
	b := make([]byte, orderTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// NewNumericOTP creates an n-digit one-time code for the password-reset flow.
func NewNumericOTP(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("rand.Int failed: %w", err)
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}
