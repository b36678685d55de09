package validation

const taxIDLength = 11

// ValidateTaxID checks a CPF: 11 digits, not all equal, both check digits valid.
// Formatting characters are ignored.
func ValidateTaxID(raw string) bool {
	digits := Digits(raw)
	if len(digits) != taxIDLength || allSame(digits) {
		return false
	}

	return checkDigit(digits[:9], 10) == digits[9] && checkDigit(digits[:10], 11) == digits[10]
}

func checkDigit(base string, firstWeight int) byte {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (firstWeight - i)
	}

	digit := 11 - sum%11
	if digit >= 10 {
		digit = 0
	}

	return byte('0' + digit)
}

// FormatTaxID masks the digits typed so far as 000.000.000-00.
func FormatTaxID(raw string) string {
	digits := Digits(raw)
	if len(digits) > taxIDLength {
		digits = digits[:taxIDLength]
	}
	return mask(digits, "###.###.###-##")
}
