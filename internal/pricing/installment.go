package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultNoInterestMax = 3
	MaxInstallments      = 12
	divisionPrecision    = 16
)

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrInvalidCount  = errors.New("installment count must be at least 1")
)

// Monthly card interest per installment count, in percent of the price.
var interestRates = [MaxInstallments + 1]decimal.Decimal{
	1:  decimal.RequireFromString("4.98"),
	2:  decimal.RequireFromString("9.90"),
	3:  decimal.RequireFromString("11.28"),
	4:  decimal.RequireFromString("12.64"),
	5:  decimal.RequireFromString("13.97"),
	6:  decimal.RequireFromString("15.27"),
	7:  decimal.RequireFromString("16.55"),
	8:  decimal.RequireFromString("17.81"),
	9:  decimal.RequireFromString("19.04"),
	10: decimal.RequireFromString("20.24"),
	11: decimal.RequireFromString("21.43"),
	12: decimal.RequireFromString("22.59"),
}

var hundred = decimal.NewFromInt(100)

type InstallmentPlan struct {
	Count               int             `json:"count"`
	PerInstallmentValue decimal.Decimal `json:"perInstallmentValue"`
	TotalPayable        decimal.Decimal `json:"totalPayable"`
	HasInterest         bool            `json:"hasInterest"`
}

// InterestRate returns the percentage charged for count installments.
// Counts outside 1..12 get the single installment rate.
func InterestRate(count int) decimal.Decimal {
	if count < 1 || count > MaxInstallments {
		return interestRates[1]
	}
	return interestRates[count]
}

// ComputeInstallment splits price in count payments. Counts up to noInterestMax
// are free of interest, above it the whole price carries the table rate.
func ComputeInstallment(price decimal.Decimal, count int, noInterestMax int) (InstallmentPlan, error) {
	if price.IsNegative() {
		return InstallmentPlan{}, fmt.Errorf("%w: %s", ErrNegativePrice, price)
	}

	if count < 1 {
		return InstallmentPlan{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	installments := decimal.NewFromInt(int64(count))

	if count <= noInterestMax {
		return InstallmentPlan{
			Count:               count,
			PerInstallmentValue: price.DivRound(installments, divisionPrecision),
			TotalPayable:        price,
			HasInterest:         false,
		}, nil
	}

	factor := decimal.NewFromInt(1).Add(InterestRate(count).Div(hundred))
	total := price.Mul(factor)

	return InstallmentPlan{
		Count:               count,
		PerInstallmentValue: total.DivRound(installments, divisionPrecision),
		TotalPayable:        total,
		HasInterest:         true,
	}, nil
}

func Compute(price decimal.Decimal, count int) (InstallmentPlan, error) {
	return ComputeInstallment(price, count, DefaultNoInterestMax)
}

// Rounded returns the plan with both amounts rounded for display.
func (p InstallmentPlan) Rounded() InstallmentPlan {
	p.PerInstallmentValue = Round(p.PerInstallmentValue)
	p.TotalPayable = Round(p.TotalPayable)
	return p
}

// Options lists the plans for every count from 1 to MaxInstallments.
func Options(price decimal.Decimal, noInterestMax int) ([]InstallmentPlan, error) {
	plans := make([]InstallmentPlan, 0, MaxInstallments)
	for count := 1; count <= MaxInstallments; count++ {
		plan, err := ComputeInstallment(price, count, noInterestMax)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// HeadlineText is the product card caption, e.g. "ou 3x de R$ 49,97 sem juros".
// It offers the longest interest-free plan allowed by noInterestMax. When no
// plan is interest-free the default count is shown with interest.
func HeadlineText(price decimal.Decimal, noInterestMax int) (string, error) {
	count := min(noInterestMax, MaxInstallments)
	if count < 1 {
		plan, err := ComputeInstallment(price, DefaultNoInterestMax, noInterestMax)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("ou %dx de %s", plan.Count, FormatBRL(plan.PerInstallmentValue)), nil
	}

	plan, err := ComputeInstallment(price, count, noInterestMax)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ou %dx de %s sem juros", plan.Count, FormatBRL(plan.PerInstallmentValue)), nil
}
