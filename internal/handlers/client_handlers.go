package handlers

import (
	"cafepos/internal/services"

	"github.com/gin-gonic/gin"
)

// ClientHandler serves customers and the audit journal.
type ClientHandler struct {
	cafeService services.CafeService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.CafeService) *ClientHandler {
	return &ClientHandler{cafeService: cs}
}

func (h *ClientHandler) AddCustomer(c *gin.Context) {
	var req services.AddCustomerRequest
	if !bindJSON(c, &req, "AddCustomer") {
		return
	}
	id, err := h.cafeService.AddCustomer(c.Request.Context(), req.Name, req.DiscountPercent)
	if err != nil {
		respondServiceError(c, err, "AddCustomer: Error from cafeService.AddCustomer", "Failed to add customer.")
		return
	}
	respondCreated(c, id)
}

func (h *ClientHandler) GetCustomers(c *gin.Context) {
	customers, err := h.cafeService.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetCustomers: Error from cafeService.ListCustomers", "Failed to fetch customers.")
		return
	}
	respondList(c, customers)
}

func (h *ClientHandler) CreateAuditLog(c *gin.Context) {
	var req services.CreateAuditLogRequest
	if !bindJSON(c, &req, "CreateAuditLog") {
		return
	}
	id, err := h.cafeService.CreateAuditLog(c.Request.Context(), req.EmployeeID, req.Action, req.Reason)
	if err != nil {
		respondServiceError(c, err, "CreateAuditLog: Error from cafeService.CreateAuditLog", "Failed to write audit log.")
		return
	}
	respondCreated(c, id)
}

// GetAuditLogs returns the journal, newest entry first.
func (h *ClientHandler) GetAuditLogs(c *gin.Context) {
	logs, err := h.cafeService.ListAuditLogs(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetAuditLogs: Error from cafeService.ListAuditLogs", "Failed to fetch audit logs.")
		return
	}
	respondList(c, logs)
}
