package storage

import (
	"strconv"
)

// StrToUint converts a string to a uint.
// On failure it returns 0 and the parse error.
func StrToUint(s string) (uint, error) {
	val, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}
