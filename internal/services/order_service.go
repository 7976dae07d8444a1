package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/pkg/utils"

	"github.com/jmoiron/sqlx"
)

var saleTables = []string{
	repositories.TableSales,
	repositories.TableSaleItems,
	repositories.TableInventory,
	repositories.TableAuditLogs,
}

func validateItems(items []models.SaleItem) error {
	for i, item := range items {
		if !item.TaxRate.IsValid() {
			return fmt.Errorf("%w: tax rate %q of item %d", ErrInvalidInput, item.TaxRate, i)
		}
	}
	return nil
}

func (s *cafeService) RecordSale(ctx context.Context, req RecordSaleRequest) (int64, error) {
	if !req.PaymentMethod.IsValid() {
		return 0, fmt.Errorf("%w: payment method %q", ErrInvalidInput, req.PaymentMethod)
	}
	if err := validateItems(req.Items); err != nil {
		return 0, err
	}

	var saleID int64
	err := s.inTx(ctx, "recording sale", func(tx *sqlx.Tx) error {
		id, err := s.recordSale(ctx, tx, req)
		saleID = id
		return err
	}, saleTables...)
	if err != nil {
		return 0, err
	}

	utils.LogDebug("Sale recorded", map[string]interface{}{"sale_id": saleID, "parked": req.MarkAsParked, "items": len(req.Items)})
	return saleID, nil
}

// recordSale writes the header, its items, the stock decrements of a finalized
// sale and the optional note, all on tx.
func (s *cafeService) recordSale(ctx context.Context, tx *sqlx.Tx, req RecordSaleRequest) (int64, error) {
	sale := models.Sale{
		Items:         req.Items,
		EmployeeID:    req.EmployeeID,
		Timestamp:     s.timestamp(),
		PaymentMethod: req.PaymentMethod,
		CustomerID:    req.CustomerID,
		IsParked:      req.MarkAsParked,
		IsSynced:      !req.MarkAsParked,
	}
	if req.DiscountPercent > 0 {
		sale.Discount = &models.Discount{Type: models.DiscountPercent, Value: req.DiscountPercent}
	}

	saleID, err := s.saleRepo.CreateSale(ctx, tx, &sale)
	if err != nil {
		return 0, fmt.Errorf("failed to create sale record: %w", err)
	}

	if !req.MarkAsParked {
		for _, item := range req.Items {
			if _, err := s.inventoryRepo.AdjustQuantity(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return 0, fmt.Errorf("failed to update stock for product ID %d: %w", item.ProductID, err)
			}
		}
	}

	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		entry := models.AuditLog{
			EmployeeID: req.EmployeeID,
			Timestamp:  sale.Timestamp,
			Action:     models.ActionSaleNote,
			Reason:     *req.Note,
		}
		if _, err := s.auditLogRepo.CreateAuditLog(ctx, tx, &entry); err != nil {
			return 0, fmt.Errorf("failed to record sale note: %w", err)
		}
	}
	return saleID, nil
}

// ParkOrder stores the order for later without touching stock.
func (s *cafeService) ParkOrder(ctx context.Context, name string, items []models.SaleItem, employeeID int64) (int64, error) {
	if err := validateItems(items); err != nil {
		return 0, err
	}

	var orderID int64
	err := s.inTx(ctx, "parking order", func(tx *sqlx.Tx) error {
		order := models.ParkedOrder{
			CreatedAt:  s.timestamp(),
			Name:       name,
			EmployeeID: employeeID,
			Items:      items,
		}
		id, err := s.parkedOrderRepo.CreateParkedOrder(ctx, tx, &order)
		if err != nil {
			return fmt.Errorf("failed to create parked order: %w", err)
		}
		orderID = id

		entry := models.AuditLog{
			EmployeeID: employeeID,
			Timestamp:  order.CreatedAt,
			Action:     models.ActionOrderParked,
			Reason:     fmt.Sprintf("Order %s parked", name),
		}
		if _, err := s.auditLogRepo.CreateAuditLog(ctx, tx, &entry); err != nil {
			return fmt.Errorf("failed to record parked order: %w", err)
		}
		return nil
	}, repositories.TableParkedOrders, repositories.TableParkedOrderItems, repositories.TableAuditLogs)
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// ResumeParkedOrder turns a parked order into a finalized cash sale and removes it.
// It returns the new sale id, or 0 when the order does not exist (anymore).
func (s *cafeService) ResumeParkedOrder(ctx context.Context, orderID int64) (int64, error) {
	var saleID int64
	tables := append([]string{repositories.TableParkedOrders, repositories.TableParkedOrderItems}, saleTables...)
	err := s.inTx(ctx, "resuming parked order", func(tx *sqlx.Tx) error {
		order, err := s.parkedOrderRepo.GetParkedOrderByID(ctx, tx, orderID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		note := fmt.Sprintf("Parked order %s resumed", order.Name)
		id, err := s.recordSale(ctx, tx, RecordSaleRequest{
			Items:           order.Items,
			EmployeeID:      order.EmployeeID,
			PaymentMethod:   models.PaymentCash,
			DiscountPercent: 0,
			CustomerID:      nil,
			MarkAsParked:    false,
			Note:            &note,
		})
		if err != nil {
			return err
		}

		if err := s.parkedOrderRepo.DeleteParkedOrderItems(ctx, tx, orderID); err != nil {
			return err
		}
		deleted, err := s.parkedOrderRepo.DeleteParkedOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if deleted != 1 {
			return errParkedOrderGone
		}
		saleID = id
		return nil
	}, tables...)
	if errors.Is(err, errParkedOrderGone) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if saleID != 0 {
		utils.LogDebug("Parked order resumed", map[string]interface{}{"parked_order_id": orderID, "sale_id": saleID})
	}
	return saleID, nil
}

// DeleteParkedOrder discards a parked order. Deleting a missing order is not an error.
func (s *cafeService) DeleteParkedOrder(ctx context.Context, orderID int64) error {
	return s.inTx(ctx, "deleting parked order", func(tx *sqlx.Tx) error {
		if err := s.parkedOrderRepo.DeleteParkedOrderItems(ctx, tx, orderID); err != nil {
			return err
		}
		_, err := s.parkedOrderRepo.DeleteParkedOrder(ctx, tx, orderID)
		return err
	}, repositories.TableParkedOrders, repositories.TableParkedOrderItems)
}
