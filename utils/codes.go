package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

const codeDigits = "0123456789"

// GenerateVerificationCode returns an n-digit numeric code. Uses
// crypto/rand + rand.Int (math/big) to avoid modulo bias.
func GenerateVerificationCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(codeDigits)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeDigits[num.Int64()])
	}
	return sb.String(), nil
}
