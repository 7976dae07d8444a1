package services

import (
	"context"

	"cafepos/internal/live"
	"cafepos/internal/models"
	"cafepos/internal/repositories"
)

func (s *cafeService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetActive(ctx, s.db)
}

func (s *cafeService) ListInventory(ctx context.Context) ([]models.InventorySnapshot, error) {
	return s.inventoryRepo.GetSnapshots(ctx, s.db)
}

func (s *cafeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.employeeRepo.GetAll(ctx, s.db)
}

func (s *cafeService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customerRepo.GetAll(ctx, s.db)
}

func (s *cafeService) ListOpenShifts(ctx context.Context) ([]models.EmployeeShift, error) {
	return s.employeeRepo.GetOpenShifts(ctx, s.db)
}

func (s *cafeService) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.saleRepo.GetSales(ctx, s.db)
}

func (s *cafeService) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.purchaseRepo.GetPurchases(ctx, s.db)
}

func (s *cafeService) ListAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	return s.auditLogRepo.GetAuditLogs(ctx, s.db)
}

// ListParkedSales presents parked orders in the shape of a Sale.
func (s *cafeService) ListParkedSales(ctx context.Context) ([]models.Sale, error) {
	orders, err := s.parkedOrderRepo.GetParkedOrders(ctx, s.db)
	if err != nil {
		return nil, err
	}
	sales := make([]models.Sale, 0, len(orders))
	for _, order := range orders {
		sales = append(sales, order.AsSale())
	}
	return sales, nil
}

func (s *cafeService) WatchProducts(ctx context.Context) <-chan []models.Product {
	return live.Observe(ctx, s.hub, s.ListProducts, repositories.TableProducts)
}

func (s *cafeService) WatchInventory(ctx context.Context) <-chan []models.InventorySnapshot {
	return live.Observe(ctx, s.hub, s.ListInventory, repositories.TableProducts, repositories.TableInventory)
}

func (s *cafeService) WatchEmployees(ctx context.Context) <-chan []models.Employee {
	return live.Observe(ctx, s.hub, s.ListEmployees, repositories.TableEmployees)
}

func (s *cafeService) WatchCustomers(ctx context.Context) <-chan []models.Customer {
	return live.Observe(ctx, s.hub, s.ListCustomers, repositories.TableCustomers)
}

func (s *cafeService) WatchOpenShifts(ctx context.Context) <-chan []models.EmployeeShift {
	return live.Observe(ctx, s.hub, s.ListOpenShifts, repositories.TableEmployeeShifts)
}

func (s *cafeService) WatchSales(ctx context.Context) <-chan []models.Sale {
	return live.Observe(ctx, s.hub, s.ListSales, repositories.TableSales, repositories.TableSaleItems)
}

func (s *cafeService) WatchPurchases(ctx context.Context) <-chan []models.Purchase {
	return live.Observe(ctx, s.hub, s.ListPurchases, repositories.TablePurchases)
}

func (s *cafeService) WatchAuditLogs(ctx context.Context) <-chan []models.AuditLog {
	return live.Observe(ctx, s.hub, s.ListAuditLogs, repositories.TableAuditLogs)
}

func (s *cafeService) WatchParkedSales(ctx context.Context) <-chan []models.Sale {
	return live.Observe(ctx, s.hub, s.ListParkedSales, repositories.TableParkedOrders, repositories.TableParkedOrderItems)
}
