package validation

import "regexp"

const phoneLength = 11

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone accepts a mobile number with area code, 11 digits.
func ValidatePhone(raw string) bool {
	return len(Digits(raw)) == phoneLength
}

func FormatPhone(raw string) string {
	digits := Digits(raw)
	if len(digits) > phoneLength {
		digits = digits[:phoneLength]
	}
	return mask(digits, "(##) #####-####")
}
