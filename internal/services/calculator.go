package services

import (
	"fmt"
	"math"

	"github.com/desertthunder/carvy/internal/shared"
)

// Calculator prices leasing contracts from the configured commercial terms.
type Calculator struct {
	AdminFee         float64
	TaxRate          float64
	LoyaltyThreshold int
	LoyaltyDiscount  float64
}

func NewCalculator(terms shared.LeasingConfig) Calculator {
	return Calculator{
		AdminFee:         terms.AdminFee,
		TaxRate:          terms.TaxRate,
		LoyaltyThreshold: terms.LoyaltyThreshold,
		LoyaltyDiscount:  terms.LoyaltyDiscount,
	}
}

// Quote is the priced outcome of a leasing request.
type Quote struct {
	Principal      float64 `json:"principal"`
	MonthlyRate    float64 `json:"monthly_rate"`
	TotalAmount    float64 `json:"total_amount"`
	LoyaltyApplied bool    `json:"loyalty_applied"`
}

// MonthlyRate amortizes price minus downPayment over months at annualRate percent:
// P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate, or P/n without interest.
func (c Calculator) MonthlyRate(price, downPayment, annualRate float64, months int) (float64, error) {
	switch {
	case months <= 0:
		return 0, fmt.Errorf("%w: duration must be positive, got %d months", shared.ErrInvalidLeasing, months)
	case annualRate < 0:
		return 0, fmt.Errorf("%w: interest rate must not be negative", shared.ErrInvalidLeasing)
	case downPayment < 0:
		return 0, fmt.Errorf("%w: down payment must not be negative", shared.ErrInvalidLeasing)
	case price <= downPayment:
		return 0, fmt.Errorf("%w: down payment %.2f covers the price %.2f", shared.ErrInvalidLeasing, downPayment, price)
	}

	principal := price - downPayment
	r := annualRate / 100 / 12
	if r == 0 {
		return principal / float64(months), nil
	}

	growth := math.Pow(1+r, float64(months))
	return principal * r * growth / (growth - 1), nil
}

// TotalAmount is every monthly payment plus the admin fee, taxed.
func (c Calculator) TotalAmount(monthly float64, months int) float64 {
	return (monthly*float64(months) + c.AdminFee) * (1 + c.TaxRate/100)
}

// AdjustRate applies the loyalty discount to rate for clients with more than
// LoyaltyThreshold purchases.
func (c Calculator) AdjustRate(purchases int, rate float64) (float64, bool) {
	if c.LoyaltyDiscount <= 0 || purchases <= c.LoyaltyThreshold {
		return rate, false
	}
	return rate * (1 - c.LoyaltyDiscount/100), true
}

// Quote prices a contract for a client with the given number of past purchases.
// Amounts are rounded to cents.
func (c Calculator) Quote(price, downPayment, annualRate float64, months, purchases int) (Quote, error) {
	monthly, err := c.MonthlyRate(price, downPayment, annualRate, months)
	if err != nil {
		return Quote{}, err
	}

	monthly, loyal := c.AdjustRate(purchases, monthly)
	monthly = roundCents(monthly)
	return Quote{
		Principal:      roundCents(price - downPayment),
		MonthlyRate:    monthly,
		TotalAmount:    roundCents(c.TotalAmount(monthly, months)),
		LoyaltyApplied: loyal,
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
