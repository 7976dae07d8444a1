package models

// ReportSummary is the financial summary of all sales within a time range.
type ReportSummary struct {
	TotalRevenue        float64             `json:"total_revenue"`
	TotalVat            float64             `json:"total_vat"`
	TotalDiscounts      float64             `json:"total_discounts"`
	TopProducts         []ProductStatistic  `json:"top_products"`
	EmployeePerformance []EmployeeStatistic `json:"employee_performance"`
}

// ProductStatistic aggregates sold quantity and revenue (net + VAT) of one product.
type ProductStatistic struct {
	Product      Product `json:"product"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// EmployeeStatistic aggregates the sales of one employee.
type EmployeeStatistic struct {
	Employee   Employee `json:"employee"`
	SalesCount int      `json:"sales_count"`
	Revenue    float64  `json:"revenue"`
}
