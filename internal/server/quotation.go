package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	quotationdomain "github.com/smallbiznis/facture/internal/quotation/domain"
)

type quotationItemRequest struct {
	Item      string  `json:"item"`
	HsnSac    string  `json:"hsn_sac"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Sgst      float64 `json:"sgst"`
	Igst      float64 `json:"igst"`
	LineTotal float64 `json:"line_total"`
}

type saveQuotationRequest struct {
	Number     string                 `json:"number"`
	Client     string                 `json:"client"`
	QuoteDate  time.Time              `json:"quote_date"`
	ExpireDate time.Time              `json:"expire_date"`
	SubTotal   float64                `json:"sub_total"`
	Tax        float64                `json:"tax"`
	Total      float64                `json:"total"`
	Status     string                 `json:"status"`
	Year       int                    `json:"year"`
	Currency   string                 `json:"currency"`
	Note       string                 `json:"note"`
	Items      []quotationItemRequest `json:"items"`
}

func (r saveQuotationRequest) toDomain() quotationdomain.SaveRequest {
	items := make([]quotationdomain.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, quotationdomain.ItemInput{
			Item:      strings.TrimSpace(it.Item),
			HsnSac:    it.HsnSac,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Sgst:      it.Sgst,
			Igst:      it.Igst,
			LineTotal: it.LineTotal,
		})
	}
	return quotationdomain.SaveRequest{
		Number:     strings.TrimSpace(r.Number),
		Client:     strings.TrimSpace(r.Client),
		QuoteDate:  r.QuoteDate,
		ExpireDate: r.ExpireDate,
		SubTotal:   r.SubTotal,
		Tax:        r.Tax,
		Total:      r.Total,
		Status:     quotationdomain.Status(r.Status),
		Year:       r.Year,
		Currency:   r.Currency,
		Note:       r.Note,
		Items:      items,
	}
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req saveQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateQuotation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req saveQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.quotationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}

func (s *Server) GetQuotation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.quotationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotations(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Client string `form:"client"`
		Limit  int    `form:"limit"`
		Offset int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.List(c.Request.Context(), quotationdomain.ListFilter{
		Status: quotationdomain.Status(query.Status),
		Client: strings.TrimSpace(query.Client),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
