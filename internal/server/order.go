package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	Amount    float64 `json:"amount"`
	ReceiptID string  `json:"receipt_id"`
}

// CreateOrder registers an order with the payment gateway so the client
// can run its checkout flow against it.
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	order, err := s.gatewaySvc.CreateOrder(ctx, req.Amount, strings.TrimSpace(req.ReceiptID))
	s.obsMetrics.RecordGatewayOrder(ctx, s.gatewaySvc.Name(), err == nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}
