package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub/learnhub-backend/internal/application"
	"github.com/learnhub/learnhub-backend/internal/domain/entity"
	"github.com/learnhub/learnhub-backend/pkg/response"
	"github.com/learnhub/learnhub-backend/pkg/validation"
)

// PaymentHandler exposes gateway order creation, the signed payment
// confirmation, and the enrollment ledger queries.
type PaymentHandler struct {
	Svc    *application.PaymentService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type createOrderRequest struct {
	AmountMinor int64  `json:"amount_minor" binding:"required,gt=0"`
	Currency    string `json:"currency"`
}

type confirmPaymentRequest struct {
	CourseID          string `json:"course_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	AmountMinor       int64  `json:"amount_minor" binding:"required,gt=0"`
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	order, err := h.Svc.CreateOrder(c.Request.Context(), req.AmountMinor, req.Currency)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"status":   order.Status,
	}, "order created", nil)
}

// Confirm verifies the signed callback, grants access, and records the
// ledger row. Retrying the same confirmation is safe.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")

	if err := h.Svc.ConfirmPayment(c.Request.Context(), application.ConfirmPaymentInput{
		UserID:    uid,
		CourseID:  req.CourseID,
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	}); err != nil {
		fail(c, h.Logger, err)
		return
	}

	rec, err := h.Svc.RecordPayment(c.Request.Context(), application.RecordPaymentInput{
		UserID:          uid,
		CourseID:        req.CourseID,
		OrderID:         req.RazorpayOrderID,
		PaymentID:       req.RazorpayPaymentID,
		AmountPaidMinor: req.AmountMinor,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}

	response.Success[any](c, http.StatusOK, gin.H{
		"enrolled":    true,
		"order_id":    rec.OrderID,
		"amount_paid": rec.AmountPaid,
		"status":      rec.Status,
	}, "payment confirmed", nil)
}

// AllEnrollments is the admin-wide ledger view.
func (h *PaymentHandler) AllEnrollments(c *gin.Context) {
	list, err := h.Svc.AllEnrollments(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerViews(list), "enrollments", gin.H{"count": len(list)})
}

// MyEnrollments lists ledger rows across the calling instructor's courses.
func (h *PaymentHandler) MyEnrollments(c *gin.Context) {
	list, err := h.Svc.InstructorEnrollments(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerViews(list), "enrollments", gin.H{"count": len(list)})
}

func (h *PaymentHandler) CourseEnrollments(c *gin.Context) {
	list, err := h.Svc.CourseEnrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerViews(list), "enrollments", gin.H{"count": len(list)})
}

func ledgerViews(list []*entity.LedgerEntry) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, e := range list {
		out = append(out, gin.H{
			"id":            e.ID,
			"student_name":  e.StudentName,
			"student_email": e.StudentEmail,
			"course_title":  e.CourseTitle,
			"order_id":      e.OrderID,
			"amount_paid":   e.AmountPaid,
			"created_at":    e.CreatedAt,
		})
	}
	return out
}
