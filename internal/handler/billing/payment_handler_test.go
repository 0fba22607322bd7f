// Package billing 收款处理器单元测试
package billing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	billingService "github.com/dmvillareal/hotel-backoffice/internal/service/billing"
)

func setupPaymentHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Billing{},
		&models.PaymentMethod{},
		&models.PaymentSubMethod{},
		&models.Payment{},
	)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.PaymentMethod{Code: models.PaymentMethodCash, Name: "现金", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.PaymentSubMethod{MethodID: 1, Code: "cash", Name: "现金", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Billing{
		BillingNo: "B20260829H0001", ReservationID: 1,
		RoomSubtotal: 1000, TotalAmount: 1000, Status: models.BillingStatusOpen,
	}).Error)

	svc := billingService.NewPaymentService(
		db,
		repository.NewBillingRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPaymentMethodRepository(db),
	)
	h := NewPaymentHandler(svc)

	engine := gin.New()
	engine.GET("/payments", h.ListPayments)
	return engine, db
}

func seedPaymentAt(t *testing.T, db *gorm.DB, no string, amount float64, paidAt time.Time) {
	require.NoError(t, db.Create(&models.Payment{
		PaymentNo: no, BillingID: 1, Amount: amount,
		SubMethodID: 1, ReceivedByID: 1, PaidAt: paidAt,
	}).Error)
}

func listPaymentsPage(t *testing.T, engine *gin.Engine, query string) (int, []map[string]interface{}, float64) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments"+query, nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			List  []map[string]interface{} `json:"list"`
			Total float64                  `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code, resp.Data.List, resp.Data.Total
}

func TestPaymentHandler_ListPayments_DateRange(t *testing.T) {
	engine, db := setupPaymentHandlerTest(t)

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	seedPaymentAt(t, db, "P20260827H0001", 100, base.AddDate(0, 0, -2))
	seedPaymentAt(t, db, "P20260829H0001", 200, base)
	seedPaymentAt(t, db, "P20260829H0002", 300, base.Add(13*time.Hour))
	seedPaymentAt(t, db, "P20260830H0001", 400, base.AddDate(0, 0, 1))

	// 不带区间返回全部
	code, list, total := listPaymentsPage(t, engine, "")
	assert.Equal(t, 0, code)
	assert.Equal(t, float64(4), total)
	assert.Len(t, list, 4)

	// 起止同日，含当天 23:59:59 前的收款
	code, list, total = listPaymentsPage(t, engine, "?start_date=2026-08-29&end_date=2026-08-29")
	assert.Equal(t, 0, code)
	assert.Equal(t, float64(2), total)
	require.Len(t, list, 2)
	for _, item := range list {
		assert.Contains(t, item["payment_no"], "P20260829")
	}

	// 只给起始日期
	_, list, total = listPaymentsPage(t, engine, "?start_date=2026-08-30")
	assert.Equal(t, float64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "P20260830H0001", list[0]["payment_no"])

	// 按收款单号过滤
	_, list, total = listPaymentsPage(t, engine, "?payment_no=P20260829H0002")
	assert.Equal(t, float64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "P20260829H0002", list[0]["payment_no"])

	// 非法日期返回 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments?start_date=2026/08/29", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
