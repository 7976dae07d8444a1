package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"cafepos/internal/config"
	"cafepos/internal/database"
	"cafepos/internal/live"
	"cafepos/internal/models"
	"cafepos/internal/router"
	"cafepos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T) (*gin.Engine, services.CafeService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(context.Background(), database.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "handlers-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	svc := services.NewCafeService(db, live.NewHub(), services.WithClock(func() time.Time { return fixedNow }))

	engine := gin.New()
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	router.Setup(engine, svc, cfg, router.WithClock(func() time.Time { return fixedNow }))
	return engine, svc
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createdID(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

var espresso = gin.H{"name": "Espresso", "price": 2.40, "tax_rate": "REDUCED", "category": "COFFEE", "reorder_level": 20}

func TestProductLifecycle(t *testing.T) {
	engine, _ := setupTestRouter(t)

	id := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/products", espresso))
	assert.Positive(t, id)

	products := decodeData[[]models.Product](t, doJSON(t, engine, http.MethodGet, "/api/v1/products", nil))
	require.Len(t, products, 1)
	assert.Equal(t, "Espresso", products[0].Name)
	assert.Nil(t, products[0].ImageURI)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/"+idStr(id)+"/deactivate", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	products = decodeData[[]models.Product](t, doJSON(t, engine, http.MethodGet, "/api/v1/products", nil))
	assert.Empty(t, products)
}

func idStr(id int64) string { return strconv.FormatInt(id, 10) }

func TestAddProductValidation(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{"price": 1.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{"name": "Tea", "price": 1.0, "tax_rate": "ZERO", "category": "DRINK"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
}

func TestDeactivateUnknownProductIsNoop(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/99/deactivate", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/products/abc/deactivate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordSaleThroughAPI(t *testing.T) {
	engine, _ := setupTestRouter(t)
	productID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/products", espresso))

	saleID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/sales", gin.H{
		"items":          []gin.H{{"product_id": productID, "quantity": 2, "unit_price": 2.40, "tax_rate": "REDUCED"}},
		"employee_id":    1,
		"payment_method": "CARD",
	}))
	assert.Positive(t, saleID)

	sales := decodeData[[]models.Sale](t, doJSON(t, engine, http.MethodGet, "/api/v1/sales", nil))
	require.Len(t, sales, 1)
	assert.Equal(t, models.PaymentCard, sales[0].PaymentMethod)
	assert.Nil(t, sales[0].Discount)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/inventory", nil)
	snapshots := decodeData[[]models.InventorySnapshot](t, w)
	require.Len(t, snapshots, 1)
	assert.Equal(t, -2, snapshots[0].Inventory.Quantity)
	assert.Contains(t, w.Body.String(), `"low_stock":true`)
}

func TestRecordSaleUnknownProductIsConflict(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/sales", gin.H{
		"items":          []gin.H{{"product_id": 42, "quantity": 1, "unit_price": 1, "tax_rate": "FULL"}},
		"employee_id":    1,
		"payment_method": "CASH",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, w))

	sales := decodeData[[]models.Sale](t, doJSON(t, engine, http.MethodGet, "/api/v1/sales", nil))
	assert.Empty(t, sales)
}

func TestInventoryAdjustAndPurchase(t *testing.T) {
	engine, _ := setupTestRouter(t)
	productID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/products", espresso))

	w := doJSON(t, engine, http.MethodPost, "/api/v1/inventory/"+idStr(productID)+"/adjust", gin.H{"delta": 7})
	assert.Equal(t, http.StatusNoContent, w.Code)

	createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/purchases", gin.H{
		"product_id": productID, "quantity": 10, "supplier": "Rösterei Nord", "cost_per_unit": 0.8,
	}))

	purchases := decodeData[[]models.Purchase](t, doJSON(t, engine, http.MethodGet, "/api/v1/purchases", nil))
	require.Len(t, purchases, 1)
	assert.Equal(t, "Rösterei Nord", purchases[0].Supplier)

	snapshots := decodeData[[]models.InventorySnapshot](t, doJSON(t, engine, http.MethodGet, "/api/v1/inventory", nil))
	require.Len(t, snapshots, 1)
	assert.Equal(t, 17, snapshots[0].Inventory.Quantity)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/purchases", gin.H{"product_id": productID, "quantity": 0, "supplier": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParkResumeDelete(t *testing.T) {
	engine, _ := setupTestRouter(t)
	productID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/products", espresso))
	items := []gin.H{{"product_id": productID, "quantity": 1, "unit_price": 2.40, "tax_rate": "REDUCED"}}

	first := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/parked-orders", gin.H{"name": "Tisch 4", "items": items, "employee_id": 1}))
	second := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/parked-orders", gin.H{"name": "Tisch 5", "items": items, "employee_id": 1}))

	parked := decodeData[[]models.Sale](t, doJSON(t, engine, http.MethodGet, "/api/v1/sales/parked", nil))
	assert.Len(t, parked, 2)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/parked-orders/"+idStr(first)+"/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resumed struct {
		Resumed bool  `json:"resumed"`
		SaleID  int64 `json:"sale_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resumed))
	assert.True(t, resumed.Resumed)
	assert.Positive(t, resumed.SaleID)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/parked-orders/"+idStr(first)+"/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resumed))
	assert.False(t, resumed.Resumed)
	assert.Zero(t, resumed.SaleID)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/parked-orders/"+idStr(second), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	parked = decodeData[[]models.Sale](t, doJSON(t, engine, http.MethodGet, "/api/v1/sales/parked", nil))
	assert.Empty(t, parked)
}

func TestEmployeesAndShifts(t *testing.T) {
	engine, _ := setupTestRouter(t)

	employeeID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/employees", gin.H{"name": "Mia", "pin": "1234", "role": "CASHIER"}))
	employees := decodeData[[]models.Employee](t, doJSON(t, engine, http.MethodGet, "/api/v1/employees", nil))
	require.Len(t, employees, 1)
	assert.Equal(t, models.HourlyRateForRole(models.RoleCashier), employees[0].HourlyRate)

	shiftID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/employees/"+idStr(employeeID)+"/clock-in", nil))
	open := decodeData[[]models.EmployeeShift](t, doJSON(t, engine, http.MethodGet, "/api/v1/shifts/open", nil))
	require.Len(t, open, 1)
	assert.Equal(t, shiftID, open[0].ID)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/shifts/"+idStr(shiftID)+"/clock-out", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	open = decodeData[[]models.EmployeeShift](t, doJSON(t, engine, http.MethodGet, "/api/v1/shifts/open", nil))
	assert.Empty(t, open)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/employees", gin.H{"name": "Max", "pin": "0000", "role": "OWNER"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClockInUnknownEmployeeIsConflict(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/employees/77/clock-in", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCustomersAndAuditLogs(t *testing.T) {
	engine, _ := setupTestRouter(t)

	createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/customers", gin.H{"name": "Stammgast", "discount_percent": 10}))
	customers := decodeData[[]models.Customer](t, doJSON(t, engine, http.MethodGet, "/api/v1/customers", nil))
	require.Len(t, customers, 1)
	assert.Zero(t, customers[0].LoyaltyPoints)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/customers", gin.H{"name": "Zu viel", "discount_percent": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/audit-logs", gin.H{"employee_id": 1, "action": "Kasse geöffnet", "reason": "Schichtbeginn"}))
	logs := decodeData[[]models.AuditLog](t, doJSON(t, engine, http.MethodGet, "/api/v1/audit-logs", nil))
	require.Len(t, logs, 1)
	assert.Equal(t, "Kasse geöffnet", logs[0].Action)
}

func seedReportSale(t *testing.T, engine *gin.Engine) {
	t.Helper()
	productID := createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/products", espresso))
	createdID(t, doJSON(t, engine, http.MethodPost, "/api/v1/sales", gin.H{
		"items":          []gin.H{{"product_id": productID, "quantity": 2, "unit_price": 2.40, "tax_rate": "REDUCED"}},
		"employee_id":    1,
		"payment_method": "CASH",
	}))
}

func TestGetReportDailyRange(t *testing.T) {
	engine, _ := setupTestRouter(t)
	seedReportSale(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/reports?range=daily", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary models.ReportSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.InDelta(t, 4.80*1.07, summary.TotalRevenue, 1e-9)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, 2, summary.TopProducts[0].QuantitySold)
}

func TestGetReportExplicitRangeExcludesSale(t *testing.T) {
	engine, _ := setupTestRouter(t)
	seedReportSale(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/reports?from=2024-05-18T00:00:00Z&to=2024-05-19T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.ReportSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Zero(t, summary.TotalRevenue)
	assert.Empty(t, summary.TopProducts)
}

func TestGetReportRejectsBadParameters(t *testing.T) {
	engine, _ := setupTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/api/v1/reports?range=weekly", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/api/v1/reports?from=yesterday", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, engine, http.MethodGet, "/api/v1/reports/export?format=pdf", nil).Code)
}

func TestExportReportCSV(t *testing.T) {
	engine, _ := setupTestRouter(t)
	seedReportSale(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/reports/export?format=csv&range=daily", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bericht_20240517_20240517.csv")
	assert.Contains(t, w.Body.String(), "Umsatz,5.14")
	assert.Contains(t, w.Body.String(), "Espresso,2,5.14")
}

func TestExportReportXLSX(t *testing.T) {
	engine, _ := setupTestRouter(t)
	seedReportSale(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/reports/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue("Bericht", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Umsatz", value)
}

func TestStreamUnknownProjection(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/stream/bookings", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamInventorySendsSnapshots(t *testing.T) {
	engine, svc := setupTestRouter(t)
	server := httptest.NewServer(engine)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/stream/inventory", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	nextData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data:") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
	}

	assert.Equal(t, "[]", nextData())

	_, err = svc.AddProduct(context.Background(), services.AddProductRequest{
		Name: "Espresso", Price: 2.40, TaxRate: models.TaxRateReduced, Category: models.CategoryCoffee,
	})
	require.NoError(t, err)

	var snapshots []models.InventorySnapshot
	require.NoError(t, json.Unmarshal([]byte(nextData()), &snapshots))
	require.Len(t, snapshots, 1)
	assert.Equal(t, "Espresso", snapshots[0].Product.Name)
}
