// Package reporting aggregates recorded sales into a financial summary.
package reporting

import (
	"sort"
	"time"

	"cafepos/internal/models"
)

// TopProductsLimit caps ReportSummary.TopProducts.
const TopProductsLimit = 5

// Compute summarizes the sales with from <= timestamp <= to.
//
// products is the product lookup; lines whose product is missing from it are
// skipped completely. employees only feeds the per-employee statistics, so a sale
// by an unknown employee still counts toward the totals.
//
// Only PERCENT discounts reduce revenue and VAT and add to TotalDiscounts. AMOUNT
// discounts are ignored. Employee revenue is the undiscounted gross total of a sale.
func Compute(sales []models.Sale, products []models.Product, employees []models.Employee, from, to time.Time) models.ReportSummary {
	productsByID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}
	employeesByID := make(map[int64]models.Employee, len(employees))
	for _, e := range employees {
		employeesByID[e.ID] = e
	}

	var summary models.ReportSummary
	productStats := make(map[int64]*models.ProductStatistic)
	employeeStats := make(map[int64]*models.EmployeeStatistic)

	for _, sale := range sales {
		if sale.Timestamp.Before(from) || sale.Timestamp.After(to) {
			continue
		}

		multiplier := 1.0
		percent := sale.Discount != nil && sale.Discount.Type == models.DiscountPercent
		if percent {
			multiplier = 1 - sale.Discount.Value/100.0
		}

		for _, item := range sale.Items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				continue
			}
			lineNet := item.UnitPrice * float64(item.Quantity) * multiplier
			lineVat := lineNet * item.TaxRate.Percentage() / 100.0
			summary.TotalRevenue += lineNet + lineVat
			summary.TotalVat += lineVat
			if percent {
				summary.TotalDiscounts += item.UnitPrice * float64(item.Quantity) * sale.Discount.Value / 100.0
			}

			stat, ok := productStats[product.ID]
			if !ok {
				stat = &models.ProductStatistic{Product: product}
				productStats[product.ID] = stat
			}
			stat.QuantitySold += item.Quantity
			stat.Revenue += lineNet + lineVat
		}

		employee, ok := employeesByID[sale.EmployeeID]
		if !ok {
			continue
		}
		stat, ok := employeeStats[employee.ID]
		if !ok {
			stat = &models.EmployeeStatistic{Employee: employee}
			employeeStats[employee.ID] = stat
		}
		stat.SalesCount++
		stat.Revenue += sale.GrossTotal()
	}

	summary.TopProducts = make([]models.ProductStatistic, 0, len(productStats))
	for _, stat := range productStats {
		summary.TopProducts = append(summary.TopProducts, *stat)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		a, b := summary.TopProducts[i], summary.TopProducts[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Product.ID < b.Product.ID
	})
	if len(summary.TopProducts) > TopProductsLimit {
		summary.TopProducts = summary.TopProducts[:TopProductsLimit]
	}

	summary.EmployeePerformance = make([]models.EmployeeStatistic, 0, len(employeeStats))
	for _, stat := range employeeStats {
		summary.EmployeePerformance = append(summary.EmployeePerformance, *stat)
	}
	sort.Slice(summary.EmployeePerformance, func(i, j int) bool {
		a, b := summary.EmployeePerformance[i], summary.EmployeePerformance[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Employee.ID < b.Employee.ID
	})

	return summary
}
