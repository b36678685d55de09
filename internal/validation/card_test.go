package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected bool
	}{
		{"visa with spaces", "4111 1111 1111 1111", true},
		{"mastercard", "5555555555554444", true},
		{"amex", "378282246310005", true},
		{"discover", "6011111111111117", true},
		{"diners fourteen digits", "30569309025904", true},
		{"elo", "6362970000457013", true},
		{"visa sixteen digits", "4539578763621486", true},
		{"visa last digit changed", "4539578763621487", false},
		{"checksum off by one", "4111111111111112", false},
		{"too short", "411111111111", false},
		{"too long", "41111111111111111111", false},
		{"empty", "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ValidateCardNumber(test.raw))
		})
	}
}

func TestDetectCardBrand(t *testing.T) {
	tests := []struct {
		raw      string
		expected CardBrand
	}{
		{"4111 1111 1111 1111", Visa},
		{"5555555555554444", Mastercard},
		{"2221000000000009", Mastercard},
		{"378282246310005", AmericanExpress},
		{"341111111111111", AmericanExpress},
		{"6011111111111117", Discover},
		{"6500000000000002", Discover},
		{"30569309025904", DinersClub},
		{"38520000023237", DinersClub},
		{"3530111333300000", JCB},
		{"180012345678901", JCB},
		{"6277800000000000", Elo},
		{"6277000000000000", Elo},
		{"4011780000000000", Elo},
		{"5067000000000000", Elo},
		{"6062826786276634", Hipercard},
		{"3841001111222233", Hipercard},
		{"9999999999999999", UnknownBrand},
		{"", UnknownBrand},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			assert.Equal(t, test.expected, DetectCardBrand(test.raw))
		})
	}
}

func TestValidateCVV(t *testing.T) {
	assert.True(t, ValidateCVV("123", Visa))
	assert.False(t, ValidateCVV("1234", Visa))
	assert.True(t, ValidateCVV("1234", AmericanExpress))
	assert.False(t, ValidateCVV("123", AmericanExpress))
	assert.True(t, ValidateCVV("1 2 3", UnknownBrand))
	assert.False(t, ValidateCVV("", Mastercard))
}

func TestValidateExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		month    int
		year     int
		expected bool
	}{
		{"current month", 10, 26, true},
		{"previous month", 9, 26, false},
		{"later this year", 12, 26, true},
		{"next year", 1, 27, true},
		{"last year", 12, 25, false},
		{"month zero", 0, 27, false},
		{"month thirteen", 13, 27, false},
		{"three digit year", 1, 127, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ValidateExpiry(test.month, test.year, now))
		})
	}
}

func TestParseExpiry(t *testing.T) {
	month, year, ok := ParseExpiry("07/29")
	assert.True(t, ok)
	assert.Equal(t, 7, month)
	assert.Equal(t, 29, year)

	_, _, ok = ParseExpiry("7/29")
	assert.False(t, ok)
}

func TestCheckCard(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	check := CheckCard(Card{
		Number: "3782 822463 10005",
		Holder: "MARIA SILVA",
		Expiry: "12/28",
		CVV:    "1234",
	}, now)

	assert.Equal(t, CardCheck{
		Brand:       AmericanExpress,
		NumberValid: true,
		ExpiryValid: true,
		CVVValid:    true,
		HolderValid: true,
		Valid:       true,
	}, check)

	check = CheckCard(Card{Number: "4111111111111111", Expiry: "01/20", CVV: "12"}, now)

	assert.Equal(t, Visa, check.Brand)
	assert.True(t, check.NumberValid)
	assert.False(t, check.ExpiryValid)
	assert.False(t, check.CVVValid)
	assert.False(t, check.HolderValid)
	assert.False(t, check.Valid)
}
