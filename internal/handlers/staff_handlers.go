package handlers

import (
	"net/http"

	"cafepos/internal/services"

	"github.com/gin-gonic/gin"
)

// StaffHandler serves employees and their shifts.
type StaffHandler struct {
	cafeService services.CafeService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(cs services.CafeService) *StaffHandler {
	return &StaffHandler{cafeService: cs}
}

func (h *StaffHandler) AddEmployee(c *gin.Context) {
	var req services.AddEmployeeRequest
	if !bindJSON(c, &req, "AddEmployee") {
		return
	}
	id, err := h.cafeService.AddEmployee(c.Request.Context(), req.Name, req.PIN, req.Role)
	if err != nil {
		respondServiceError(c, err, "AddEmployee: Error from cafeService.AddEmployee", "Failed to add employee.")
		return
	}
	respondCreated(c, id)
}

func (h *StaffHandler) GetEmployees(c *gin.Context) {
	employees, err := h.cafeService.ListEmployees(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetEmployees: Error from cafeService.ListEmployees", "Failed to fetch employees.")
		return
	}
	respondList(c, employees)
}

func (h *StaffHandler) ClockIn(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}
	id, err := h.cafeService.ClockIn(c.Request.Context(), employeeID)
	if err != nil {
		respondServiceError(c, err, "ClockIn: Error from cafeService.ClockIn", "Failed to clock in.")
		return
	}
	respondCreated(c, id)
}

func (h *StaffHandler) ClockOut(c *gin.Context) {
	shiftID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.cafeService.ClockOut(c.Request.Context(), shiftID); err != nil {
		respondServiceError(c, err, "ClockOut: Error from cafeService.ClockOut", "Failed to clock out.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) GetOpenShifts(c *gin.Context) {
	shifts, err := h.cafeService.ListOpenShifts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetOpenShifts: Error from cafeService.ListOpenShifts", "Failed to fetch open shifts.")
		return
	}
	respondList(c, shifts)
}
