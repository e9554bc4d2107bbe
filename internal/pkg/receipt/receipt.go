package receipt

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const prefix = "RCP"

// New returns a receipt identifier such as RCP-20240501-143005-9F2C01AB.
// The suffix takes 32 random bits from a version 4 UUID.
func New(paidAt time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(id[:4]))
	return prefix + "-" + paidAt.UTC().Format("20060102-150405") + "-" + suffix
}

// IsValid reports whether s has the shape produced by New.
func IsValid(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 4 || parts[0] != prefix {
		return false
	}
	if _, err := time.Parse("20060102-150405", parts[1]+"-"+parts[2]); err != nil {
		return false
	}
	if len(parts[3]) != 8 {
		return false
	}
	_, err := hex.DecodeString(parts[3])
	return err == nil && strings.ToUpper(parts[3]) == parts[3]
}
