package models

import "time"

// SaleItem is one line of a sale or parked order. UnitPrice and TaxRate are
// captured when the line is created and never re-read from the product.
type SaleItem struct {
	ProductID int64   `json:"product_id" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	TaxRate   TaxRate `json:"tax_rate" db:"tax_rate"`
}

// Net is the undiscounted net value of the line.
func (i SaleItem) Net() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Sale is a recorded transaction. Parked sales never affected inventory.
type Sale struct {
	ID            int64         `json:"id"`
	Items         []SaleItem    `json:"items"`
	EmployeeID    int64         `json:"employee_id"`
	Timestamp     time.Time     `json:"timestamp"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Discount      *Discount     `json:"discount,omitempty"`
	CustomerID    *int64        `json:"customer_id,omitempty"`
	IsParked      bool          `json:"is_parked"`
	IsSynced      bool          `json:"is_synced"`
}

// GrossTotal sums net plus VAT over all items, ignoring any discount.
func (s Sale) GrossTotal() float64 {
	var total float64
	for _, item := range s.Items {
		net := item.Net()
		total += net + net*item.TaxRate.Percentage()/100.0
	}
	return total
}

// ParkedOrder is a staging area for a sale that has not touched inventory yet.
type ParkedOrder struct {
	ID         int64      `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	Name       string     `json:"name"`
	EmployeeID int64      `json:"employee_id"`
	Items      []SaleItem `json:"items"`
}

// AsSale presents the parked order in the same shape as a Sale.
func (o ParkedOrder) AsSale() Sale {
	return Sale{
		ID:            o.ID,
		Items:         o.Items,
		EmployeeID:    o.EmployeeID,
		Timestamp:     o.CreatedAt,
		PaymentMethod: PaymentCash,
		IsParked:      true,
		IsSynced:      false,
	}
}
