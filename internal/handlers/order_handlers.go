package handlers

import (
	"net/http"

	"cafepos/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves sales and parked orders.
type OrderHandler struct {
	cafeService services.CafeService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(cs services.CafeService) *OrderHandler {
	return &OrderHandler{cafeService: cs}
}

// RecordSale handles a finalized or parked sale.
func (h *OrderHandler) RecordSale(c *gin.Context) {
	var req services.RecordSaleRequest
	if !bindJSON(c, &req, "RecordSale") {
		return
	}
	id, err := h.cafeService.RecordSale(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "RecordSale: Error from cafeService.RecordSale", "Failed to record sale.")
		return
	}
	respondCreated(c, id)
}

func (h *OrderHandler) GetSales(c *gin.Context) {
	sales, err := h.cafeService.ListSales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetSales: Error from cafeService.ListSales", "Failed to fetch sales.")
		return
	}
	respondList(c, sales)
}

func (h *OrderHandler) GetParkedSales(c *gin.Context) {
	sales, err := h.cafeService.ListParkedSales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetParkedSales: Error from cafeService.ListParkedSales", "Failed to fetch parked orders.")
		return
	}
	respondList(c, sales)
}

func (h *OrderHandler) ParkOrder(c *gin.Context) {
	var req services.ParkOrderRequest
	if !bindJSON(c, &req, "ParkOrder") {
		return
	}
	id, err := h.cafeService.ParkOrder(c.Request.Context(), req.Name, req.Items, req.EmployeeID)
	if err != nil {
		respondServiceError(c, err, "ParkOrder: Error from cafeService.ParkOrder", "Failed to park order.")
		return
	}
	respondCreated(c, id)
}

// ResumeParkedOrder finalizes a parked order. A missing order yields resumed=false.
func (h *OrderHandler) ResumeParkedOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	saleID, err := h.cafeService.ResumeParkedOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err, "ResumeParkedOrder: Error from cafeService.ResumeParkedOrder", "Failed to resume parked order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumed": saleID != 0, "sale_id": saleID})
}

func (h *OrderHandler) DeleteParkedOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.cafeService.DeleteParkedOrder(c.Request.Context(), orderID); err != nil {
		respondServiceError(c, err, "DeleteParkedOrder: Error from cafeService.DeleteParkedOrder", "Failed to delete parked order.")
		return
	}
	c.Status(http.StatusNoContent)
}
