package handlers

import (
	"context"
	"io"
	"net/http"

	"cafepos/internal/services"
	"cafepos/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StreamHandler pushes projection snapshots to clients as server-sent events.
type StreamHandler struct {
	projections map[string]func(ctx context.Context) <-chan any
}

// NewStreamHandler creates a new StreamHandler over the projections of p.
func NewStreamHandler(p services.Projections) *StreamHandler {
	return &StreamHandler{projections: map[string]func(ctx context.Context) <-chan any{
		"products":     func(ctx context.Context) <-chan any { return forward(ctx, p.WatchProducts(ctx)) },
		"inventory":    func(ctx context.Context) <-chan any { return forward(ctx, p.WatchInventory(ctx)) },
		"employees":    func(ctx context.Context) <-chan any { return forward(ctx, p.WatchEmployees(ctx)) },
		"customers":    func(ctx context.Context) <-chan any { return forward(ctx, p.WatchCustomers(ctx)) },
		"shifts":       func(ctx context.Context) <-chan any { return forward(ctx, p.WatchOpenShifts(ctx)) },
		"sales":        func(ctx context.Context) <-chan any { return forward(ctx, p.WatchSales(ctx)) },
		"purchases":    func(ctx context.Context) <-chan any { return forward(ctx, p.WatchPurchases(ctx)) },
		"audit-logs":   func(ctx context.Context) <-chan any { return forward(ctx, p.WatchAuditLogs(ctx)) },
		"parked-sales": func(ctx context.Context) <-chan any { return forward(ctx, p.WatchParkedSales(ctx)) },
	}}
}

func forward[T any](ctx context.Context, in <-chan T) <-chan any {
	out := make(chan any)
	go func() {
		defer close(out)
		for v := range in {
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Stream sends a "snapshot" event with the current list and another after every change.
func (h *StreamHandler) Stream(c *gin.Context) {
	name := c.Param("projection")
	watch, ok := h.projections[name]
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Unknown projection.", name))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	snapshots := watch(ctx)

	utils.LogDebug("Stream opened", map[string]interface{}{"projection": name})
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snapshot)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
