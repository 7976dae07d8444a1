package models

// TaxRate is the VAT tier of a product or line item. Stored by name.
type TaxRate string

const (
	TaxRateReduced TaxRate = "REDUCED"
	TaxRateFull    TaxRate = "FULL"
)

// Percentage returns the VAT percentage for the tier (7 or 19).
func (t TaxRate) Percentage() float64 {
	switch t {
	case TaxRateReduced:
		return 7.0
	case TaxRateFull:
		return 19.0
	default:
		return 0
	}
}

func (t TaxRate) IsValid() bool {
	return t == TaxRateReduced || t == TaxRateFull
}

// ProductCategory groups products in the catalog.
type ProductCategory string

const (
	CategoryCoffee      ProductCategory = "COFFEE"
	CategoryFood        ProductCategory = "FOOD"
	CategoryDrink       ProductCategory = "DRINK"
	CategoryMerchandise ProductCategory = "MERCHANDISE"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryCoffee, CategoryFood, CategoryDrink, CategoryMerchandise:
		return true
	default:
		return false
	}
}

// PaymentMethod is recorded as a label only.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentWallet PaymentMethod = "WALLET"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentWallet:
		return true
	default:
		return false
	}
}

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

// EmployeeRole determines the hourly rate of an employee.
type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "ADMIN"
	RoleCashier EmployeeRole = "CASHIER"
	RoleTemp    EmployeeRole = "TEMP"
)

func (r EmployeeRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleTemp:
		return true
	default:
		return false
	}
}

// HourlyRateForRole is the only source of an employee's hourly rate.
func HourlyRateForRole(role EmployeeRole) float64 {
	switch role {
	case RoleAdmin:
		return 18.5
	case RoleCashier:
		return 15.0
	case RoleTemp:
		return 12.5
	default:
		return 0
	}
}
