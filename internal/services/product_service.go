package services

import (
	"context"
	"errors"
	"fmt"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// AddProduct creates an active product together with its stock record at quantity 0.
func (s *cafeService) AddProduct(ctx context.Context, req AddProductRequest) (int64, error) {
	if !req.TaxRate.IsValid() {
		return 0, fmt.Errorf("%w: tax rate %q", ErrInvalidInput, req.TaxRate)
	}
	if !req.Category.IsValid() {
		return 0, fmt.Errorf("%w: category %q", ErrInvalidInput, req.Category)
	}
	reorderLevel := DefaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}

	var productID int64
	err := s.inTx(ctx, "adding product", func(tx *sqlx.Tx) error {
		product := models.Product{
			Name:     req.Name,
			Price:    req.Price,
			TaxRate:  req.TaxRate,
			Category: req.Category,
			ImageURI: req.ImageURI,
			IsActive: true,
		}
		id, err := s.productRepo.Upsert(ctx, tx, &product)
		if err != nil {
			return fmt.Errorf("failed to create product record: %w", err)
		}
		if id == 0 {
			// The insert reported no id; the new row is the newest one.
			if id, err = s.productRepo.MaxID(ctx, tx); err != nil {
				return err
			}
		}
		productID = id

		item := models.InventoryItem{ProductID: productID, Quantity: 0, ReorderLevel: reorderLevel}
		if err := s.inventoryRepo.Upsert(ctx, tx, &item); err != nil {
			return fmt.Errorf("failed to create inventory record: %w", err)
		}
		return nil
	}, repositories.TableProducts, repositories.TableInventory)
	if err != nil {
		return 0, err
	}

	utils.LogDebug("Product added", map[string]interface{}{"product_id": productID, "name": req.Name})
	return productID, nil
}

// DeactivateProduct hides a product from the catalog. Its history stays intact.
func (s *cafeService) DeactivateProduct(ctx context.Context, productID int64) error {
	return s.inTx(ctx, "deactivating product", func(tx *sqlx.Tx) error {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !product.IsActive {
			return nil
		}
		product.IsActive = false
		if _, err := s.productRepo.Upsert(ctx, tx, product); err != nil {
			return fmt.Errorf("failed to deactivate product %d: %w", productID, err)
		}
		return nil
	}, repositories.TableProducts)
}

// AdjustInventory adds delta to the product's stock. Unknown products are ignored.
func (s *cafeService) AdjustInventory(ctx context.Context, productID int64, delta int) error {
	return s.inTx(ctx, "adjusting inventory", func(tx *sqlx.Tx) error {
		_, err := s.inventoryRepo.AdjustQuantity(ctx, tx, productID, delta)
		return err
	}, repositories.TableInventory)
}

// AddPurchase records a goods receipt and books its quantity into stock.
func (s *cafeService) AddPurchase(ctx context.Context, productID int64, quantity int, supplier string, costPerUnit float64) (int64, error) {
	var purchaseID int64
	err := s.inTx(ctx, "adding purchase", func(tx *sqlx.Tx) error {
		purchase := models.Purchase{
			ProductID:   productID,
			Quantity:    quantity,
			Supplier:    supplier,
			CostPerUnit: costPerUnit,
			Timestamp:   s.timestamp(),
		}
		id, err := s.purchaseRepo.CreatePurchase(ctx, tx, &purchase)
		if err != nil {
			return fmt.Errorf("failed to create purchase record: %w", err)
		}
		purchaseID = id
		if _, err := s.inventoryRepo.AdjustQuantity(ctx, tx, productID, quantity); err != nil {
			return fmt.Errorf("failed to book purchase into stock: %w", err)
		}
		return nil
	}, repositories.TablePurchases, repositories.TableInventory)
	if err != nil {
		return 0, err
	}
	return purchaseID, nil
}
