package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	customerdomain "github.com/smallbiznis/facture/internal/customer/domain"
)

type createCustomerRequest struct {
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Country  string            `json:"country"`
	Metadata datatypes.JSONMap `json:"metadata"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateRequest{
		Type:     customerdomain.CustomerType(req.Type),
		Name:     strings.TrimSpace(req.Name),
		Address:  req.Address,
		Email:    strings.TrimSpace(req.Email),
		Phone:    req.Phone,
		Country:  req.Country,
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		Type   string `form:"type"`
		Limit  int    `form:"limit"`
		Offset int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListFilter{
		Type:   customerdomain.CustomerType(query.Type),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
