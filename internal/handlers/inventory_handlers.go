package handlers

import (
	"net/http"

	"cafepos/internal/services"
	"cafepos/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler serves the catalog, stock levels and goods receipts.
type InventoryHandler struct {
	cafeService services.CafeService
}

func NewInventoryHandler(cs services.CafeService) *InventoryHandler {
	return &InventoryHandler{cafeService: cs}
}

// AddProduct handles the creation of a new product with its stock record.
func (h *InventoryHandler) AddProduct(c *gin.Context) {
	var req services.AddProductRequest
	if !bindJSON(c, &req, "AddProduct") {
		return
	}
	if req.ImageURI != nil {
		req.ImageURI = utils.NewNullString(*req.ImageURI)
	}

	id, err := h.cafeService.AddProduct(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "AddProduct: Error from cafeService.AddProduct", "Failed to add product.")
		return
	}
	respondCreated(c, id)
}

func (h *InventoryHandler) GetProducts(c *gin.Context) {
	products, err := h.cafeService.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetProducts: Error from cafeService.ListProducts", "Failed to fetch products.")
		return
	}
	respondList(c, products)
}

func (h *InventoryHandler) DeactivateProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.cafeService.DeactivateProduct(c.Request.Context(), productID); err != nil {
		respondServiceError(c, err, "DeactivateProduct: Error from cafeService.DeactivateProduct", "Failed to deactivate product.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InventoryHandler) GetInventory(c *gin.Context) {
	snapshots, err := h.cafeService.ListInventory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetInventory: Error from cafeService.ListInventory", "Failed to fetch inventory.")
		return
	}
	respondList(c, snapshots)
}

// AdjustInventory applies a signed stock correction.
func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	var req services.AdjustInventoryRequest
	if !bindJSON(c, &req, "AdjustInventory") {
		return
	}
	if err := h.cafeService.AdjustInventory(c.Request.Context(), productID, req.Delta); err != nil {
		respondServiceError(c, err, "AdjustInventory: Error from cafeService.AdjustInventory", "Failed to adjust inventory.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InventoryHandler) AddPurchase(c *gin.Context) {
	var req services.AddPurchaseRequest
	if !bindJSON(c, &req, "AddPurchase") {
		return
	}
	id, err := h.cafeService.AddPurchase(c.Request.Context(), req.ProductID, req.Quantity, req.Supplier, req.CostPerUnit)
	if err != nil {
		respondServiceError(c, err, "AddPurchase: Error from cafeService.AddPurchase", "Failed to record purchase.")
		return
	}
	respondCreated(c, id)
}

func (h *InventoryHandler) GetPurchases(c *gin.Context) {
	purchases, err := h.cafeService.ListPurchases(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetPurchases: Error from cafeService.ListPurchases", "Failed to fetch purchases.")
		return
	}
	respondList(c, purchases)
}
