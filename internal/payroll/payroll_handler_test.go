package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/response"
)

func monthListRouter(t *testing.T, svc payroll.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := payroll.NewHandler(svc, nil, nil, nil)
	r := gin.New()
	r.GET("/payroll-months/:month", handler.GetAllByMonth)
	return r
}

func TestGetAllByMonthPaginatesResults(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)
	for i := 0; i < 3; i++ {
		req := createRequest()
		req.EmployeeID = uuid.NewString()
		_, err := svc.Create(context.Background(), uuid.NewString(), req)
		assert.NoError(t, err)
	}

	r := monthListRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/payroll-months/2026-03?page=2&page_size=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool                      `json:"ok"`
		Data []payroll.PayrollResponse `json:"data"`
		Meta *response.PaginationMeta  `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.True(t, envelope.Ok)
	assert.Len(t, envelope.Data, 1)
	assert.NotNil(t, envelope.Meta)
	assert.Equal(t, int64(3), envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
	assert.Equal(t, 2, envelope.Meta.Page)
	assert.Equal(t, 2, envelope.Meta.PageSize)
}

func TestGetAllByMonthRejectsBadMonth(t *testing.T) {
	svc := newTestService(t, newFakePayrollRepository())
	r := monthListRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/payroll-months/March-2026", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
