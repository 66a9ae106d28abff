package payroll

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/apperror"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/response"
)

type Handler struct {
	service  Service
	batch    *BatchGenerator
	payments *PaymentProcessor
	rdb      *redis.Client
}

func NewHandler(service Service, batch *BatchGenerator, payments *PaymentProcessor, rdb *redis.Client) *Handler {
	return &Handler{service: service, batch: batch, payments: payments, rdb: rdb}
}

// releaseIdempotencyLock frees the in-flight lock set by the
// idempotency middleware; cacheResult fills the replay cache on
// success. Both no-op when the request carried no Idempotency-Key.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

func (h *Handler) cacheResult(c *gin.Context, result any) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	if payload, err := json.Marshal(result); err == nil {
		_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindingError(c *gin.Context, err error) {
	mapped := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAllByMonth(c *gin.Context) {
	resp, err := h.service.GetAllByMonth(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))
	if pageSize < 1 {
		pageSize = 25
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AddAdjustment(c *gin.Context) {
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.AddAdjustment(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	var req ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.service.Summary(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true}, nil)
}

// GenerateBatch creates one record per active employee for the month.
// It is idempotent; rerunning a month only reports skips.
func (h *Handler) GenerateBatch(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	result, err := h.batch.ProcessAllEmployees(c.Request.Context(), req.Month, c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.AnnounceBatchCompleted(c.Request.Context(), c.GetString("user_id"), result); err != nil {
		contextutil.GetLogger(c.Request.Context(), zap.L()).Warn("announce batch completion failed",
			zap.String("month", result.Month),
			zap.Error(err),
		)
	}

	h.cacheResult(c, result)
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) CloneFromPreviousMonth(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	result, err := h.batch.CreateFromPreviousMonth(c.Request.Context(), req.Month, c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, result)
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.payments.MarkAsPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BatchPayment(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req BatchPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	result, err := h.payments.ProcessBatchPayment(c.Request.Context(), c.Param("month"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, result)
	response.Success(c, http.StatusOK, result, nil)
}

// RequestPayslip queues generation; the worker picks the event up from
// the outbox. 202 tells the caller to poll the record.
func (h *Handler) RequestPayslip(c *gin.Context) {
	if err := h.service.RequestPayslip(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": true}, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !resp.Payslip.Generated || resp.Payslip.Path == "" {
		h.writeServiceError(c, payrollerrors.ErrPayslipNotGenerated)
		return
	}

	c.FileAttachment(resp.Payslip.Path, "payslip-"+resp.PayrollMonth+"-"+resp.EmployeeID+".pdf")
}
