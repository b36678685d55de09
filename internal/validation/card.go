package validation

import (
	"strings"
	"time"
)

type CardBrand string

const (
	Visa            CardBrand = "Visa"
	Mastercard      CardBrand = "Mastercard"
	AmericanExpress CardBrand = "American Express"
	Discover        CardBrand = "Discover"
	DinersClub      CardBrand = "Diners Club"
	JCB             CardBrand = "JCB"
	Elo             CardBrand = "Elo"
	Hipercard       CardBrand = "Hipercard"
	UnknownBrand    CardBrand = "Unknown"
)

const (
	minCardLength = 13
	maxCardLength = 19
)

type brandRule struct {
	brand    CardBrand
	prefixes []string
}

// Evaluated in order, first match wins. Elo and Hipercard ranges sit inside
// the Visa and Diners ones, so they are checked first.
var brandRules = []brandRule{
	{Elo, []string{"4011", "4312", "4389", "4514", "4576", "5041", "5066", "5067", "6277", "6362", "6363", "6504", "6505", "6516"}},
	{Hipercard, []string{"606282", "3841"}},
	{Visa, []string{"4"}},
	{Mastercard, []string{"51", "52", "53", "54", "55", "22", "23", "24", "25", "26", "27"}},
	{AmericanExpress, []string{"34", "37"}},
	{Discover, []string{"6011", "65"}},
	{DinersClub, []string{"300", "301", "302", "303", "304", "305", "36", "38"}},
	{JCB, []string{"2131", "1800", "35"}},
}

// ValidateCardNumber applies the Luhn checksum to numbers of 13 to 19 digits.
func ValidateCardNumber(raw string) bool {
	digits := Digits(raw)
	if len(digits) < minCardLength || len(digits) > maxCardLength {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

func DetectCardBrand(raw string) CardBrand {
	digits := Digits(raw)
	if digits == "" {
		return UnknownBrand
	}

	for _, rule := range brandRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(digits, prefix) {
				return rule.brand
			}
		}
	}

	return UnknownBrand
}

// ValidateCVV expects 4 digits for American Express and 3 for every other brand.
func ValidateCVV(cvv string, brand CardBrand) bool {
	digits := Digits(cvv)
	if brand == AmericanExpress {
		return len(digits) == 4
	}
	return len(digits) == 3
}

// ValidateExpiry accepts a two digit year. The card is valid through its expiry month.
func ValidateExpiry(month, year int, now time.Time) bool {
	if month < 1 || month > 12 || year < 0 || year > 99 {
		return false
	}

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if year < currentYear {
		return false
	}

	return year > currentYear || month >= currentMonth
}

// ParseExpiry reads "MM/YY", returning ok false when the layout is wrong.
func ParseExpiry(raw string) (month, year int, ok bool) {
	digits := Digits(raw)
	if len(digits) != 4 {
		return 0, 0, false
	}

	month = int(digits[0]-'0')*10 + int(digits[1]-'0')
	year = int(digits[2]-'0')*10 + int(digits[3]-'0')

	return month, year, true
}

type Card struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

type CardCheck struct {
	Brand       CardBrand `json:"brand"`
	NumberValid bool      `json:"numberValid"`
	ExpiryValid bool      `json:"expiryValid"`
	CVVValid    bool      `json:"cvvValid"`
	HolderValid bool      `json:"holderValid"`
	Valid       bool      `json:"valid"`
}

// CheckCard validates every field of a payment card at once.
func CheckCard(card Card, now time.Time) CardCheck {
	brand := DetectCardBrand(card.Number)
	month, year, ok := ParseExpiry(card.Expiry)

	check := CardCheck{
		Brand:       brand,
		NumberValid: ValidateCardNumber(card.Number),
		ExpiryValid: ok && ValidateExpiry(month, year, now),
		CVVValid:    ValidateCVV(card.CVV, brand),
		HolderValid: strings.TrimSpace(card.Holder) != "",
	}
	check.Valid = check.NumberValid && check.ExpiryValid && check.CVVValid && check.HolderValid

	return check
}
