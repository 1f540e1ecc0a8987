package record

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique record identifiers.
type IDGenerator func() string

// UUIDGenerator returns random UUIDs.
func UUIDGenerator() string {
	return uuid.NewString()
}

// Sequence returns a deterministic generator yielding prefix1, prefix2, ...
func Sequence(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}
