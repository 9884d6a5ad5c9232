package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/smallbiznis/facture/internal/payment/domain"
)

type savePaymentRequest struct {
	QuotationID      string    `json:"quotation_id"`
	Amount           float64   `json:"amount"`
	PayDate          time.Time `json:"pay_date"`
	Status           string    `json:"status"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
}

func (r savePaymentRequest) toDomain() paymentdomain.SaveRequest {
	return paymentdomain.SaveRequest{
		QuotationID:      strings.TrimSpace(r.QuotationID),
		Amount:           r.Amount,
		PayDate:          r.PayDate,
		Status:           paymentdomain.Status(r.Status),
		GatewayOrderID:   r.GatewayOrderID,
		GatewayPaymentID: r.GatewayPaymentID,
	}
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req savePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req savePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.paymentSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}

func (s *Server) GetPayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.paymentSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Limit  int    `form:"limit"`
		Offset int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListFilter{
		Status: paymentdomain.Status(query.Status),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListPaymentCustomers returns the distinct clients across quotations,
// for populating customer pickers.
func (s *Server) ListPaymentCustomers(c *gin.Context) {
	resp, err := s.paymentSvc.DistinctCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPaymentsByCustomer(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	resp, err := s.paymentSvc.ListByCustomer(c.Request.Context(), name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotationsByCustomer(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	resp, err := s.paymentSvc.QuotationsByCustomer(c.Request.Context(), name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
