package validation

const postalCodeLength = 8

// NormalizePostalCode strips formatting from a CEP.
func NormalizePostalCode(raw string) string {
	return Digits(raw)
}

// ValidatePostalCodeLocal checks the CEP shape only: 8 digits, not all zero.
func ValidatePostalCodeLocal(raw string) bool {
	digits := NormalizePostalCode(raw)
	return len(digits) == postalCodeLength && digits != "00000000"
}

func FormatPostalCode(raw string) string {
	digits := NormalizePostalCode(raw)
	if len(digits) > postalCodeLength {
		digits = digits[:postalCodeLength]
	}
	return mask(digits, "#####-###")
}
