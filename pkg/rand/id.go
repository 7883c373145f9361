// Package rand makes short random identifiers for record and row names.
package rand

import (
	cr "crypto/rand"
	"encoding/base32"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ID16 returns 16 base32 characters drawn from 10 random bytes.
func ID16() string {
	var b [10]byte
	_, _ = cr.Read(b[:])
	return encoding.EncodeToString(b[:])
}

// Name returns "<series>-<ID16>", the naming series of stored records.
func Name(series string) string {
	return series + "-" + ID16()
}
