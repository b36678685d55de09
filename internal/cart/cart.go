package cart

import (
	"errors"
	"fmt"
	"slices"

	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/pricing"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"github.com/shopspring/decimal"
)

const DefaultInstallmentCount = pricing.MaxInstallments

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidInstallments = errors.New("installment count must be between 1 and 12")
	ErrInvalidSize         = errors.New("size not offered for this product")
	ErrLineNotFound        = errors.New("product not in cart")
)

// Store holds one cart. Every operation returns the resulting state, the
// caller persists it.
type Store struct {
	cart schema.Cart
}

func NewStore(initial schema.Cart) *Store {
	if initial.InstallmentCount < 1 || initial.InstallmentCount > pricing.MaxInstallments {
		initial.InstallmentCount = DefaultInstallmentCount
	}

	return &Store{cart: clone(initial)}
}

func clone(cart schema.Cart) schema.Cart {
	lines := slices.Clone(cart.Lines)
	if lines == nil {
		lines = []schema.CartLine{}
	}

	return schema.Cart{Lines: lines, InstallmentCount: cart.InstallmentCount}
}

func (s *Store) State() schema.Cart {
	return clone(s.cart)
}

func (s *Store) index(productID int) int {
	return slices.IndexFunc(s.cart.Lines, func(line schema.CartLine) bool {
		return line.ProductID == productID
	})
}

// Add puts quantity units of product in the cart, merging with an existing line.
func (s *Store) Add(product schema.Product, quantity int, size string) (schema.Cart, error) {
	if quantity < 1 {
		return s.State(), fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	if size != "" && !catalog.ValidSize(product.Category, size) {
		return s.State(), fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}

	if i := s.index(product.ID); i >= 0 {
		s.cart.Lines[i].Quantity += quantity
		if size != "" {
			s.cart.Lines[i].Size = size
		}
		return s.State(), nil
	}

	s.cart.Lines = append(s.cart.Lines, schema.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Image:     product.Image,
		Icon:      product.Icon,
		Size:      size,
		Quantity:  quantity,
	})

	return s.State(), nil
}

func (s *Store) Remove(productID int) schema.Cart {
	s.cart.Lines = slices.DeleteFunc(s.cart.Lines, func(line schema.CartLine) bool {
		return line.ProductID == productID
	})
	return s.State()
}

// UpdateQuantity changes a line by delta, dropping it at zero or below.
func (s *Store) UpdateQuantity(productID int, delta int) (schema.Cart, error) {
	i := s.index(productID)
	if i < 0 {
		return s.State(), fmt.Errorf("%w: %d", ErrLineNotFound, productID)
	}

	s.cart.Lines[i].Quantity += delta
	if s.cart.Lines[i].Quantity <= 0 {
		return s.Remove(productID), nil
	}

	return s.State(), nil
}

func (s *Store) Clear() schema.Cart {
	s.cart = schema.Cart{Lines: []schema.CartLine{}, InstallmentCount: DefaultInstallmentCount}
	return s.State()
}

func (s *Store) SelectInstallments(count int) (schema.Cart, error) {
	if count < 1 || count > pricing.MaxInstallments {
		return s.State(), fmt.Errorf("%w: %d", ErrInvalidInstallments, count)
	}

	s.cart.InstallmentCount = count
	return s.State(), nil
}

func ItemCount(cart schema.Cart) int {
	count := 0
	for _, line := range cart.Lines {
		count += line.Quantity
	}
	return count
}

func Total(cart schema.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Installment is the plan for the selected count over the cart total.
func Installment(cart schema.Cart) (pricing.InstallmentPlan, error) {
	return pricing.Compute(Total(cart), cart.InstallmentCount)
}

type Summary struct {
	Lines     []schema.CartLine       `json:"lines"`
	ItemCount int                     `json:"itemCount"`
	Total     decimal.Decimal         `json:"total"`
	Plan      pricing.InstallmentPlan `json:"plan"`
}

// Summarize prepares the checkout hand-off of a non-empty cart.
func Summarize(cart schema.Cart) (Summary, error) {
	if len(cart.Lines) == 0 {
		return Summary{}, ErrEmptyCart
	}

	plan, err := Installment(cart)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Lines:     slices.Clone(cart.Lines),
		ItemCount: ItemCount(cart),
		Total:     Total(cart),
		Plan:      plan.Rounded(),
	}, nil
}
