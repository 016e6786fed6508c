package parse

import "errors"

// NationalIDLength is the exact number of digits in a national ID.
const NationalIDLength = 11

// ErrNationalIDFormat reports a national ID that is not exactly 11 digits.
var ErrNationalIDFormat = errors.New("national id must be exactly 11 numeric digits")

// NationalID checks that raw is exactly 11 ASCII digits. Surrounding
// whitespace is not tolerated; callers trim if they want to.
func NationalID(raw string) error {
	if len(raw) != NationalIDLength {
		return ErrNationalIDFormat
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return ErrNationalIDFormat
		}
	}
	return nil
}
