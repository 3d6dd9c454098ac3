package command

import "regexp"

var (
	clockPattern = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValidClockString reports whether s is a zero-padded HH:MM string.
// Only the shape is checked, "99:99" passes.
func IsValidClockString(s string) bool {
	return clockPattern.MatchString(s)
}

// IsValidPhoneDigits reports whether s is exactly ten digits.
func IsValidPhoneDigits(s string) bool {
	return phonePattern.MatchString(s)
}
