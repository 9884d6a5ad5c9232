package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/smallbiznis/facture/internal/auth/domain"
	customerdomain "github.com/smallbiznis/facture/internal/customer/domain"
	gatewaydomain "github.com/smallbiznis/facture/internal/gateway/domain"
	paymentdomain "github.com/smallbiznis/facture/internal/payment/domain"
	quotationdomain "github.com/smallbiznis/facture/internal/quotation/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(err),
					Code:    code,
					Message: strings.ReplaceAll(code, "_", " "),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, quotationdomain.ErrNumberConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, gatewaydomain.ErrOrderCreate):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "payment gateway request failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, quotationdomain.ErrMissingField),
		errors.Is(err, quotationdomain.ErrEmptyItems),
		errors.Is(err, quotationdomain.ErrInvalidItem),
		errors.Is(err, quotationdomain.ErrInvalidStatus),
		errors.Is(err, paymentdomain.ErrMissingField),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidDate),
		errors.Is(err, paymentdomain.ErrInvalidStatus),
		errors.Is(err, paymentdomain.ErrInvalidQuotation),
		errors.Is(err, customerdomain.ErrMissingField),
		errors.Is(err, customerdomain.ErrInvalidType),
		errors.Is(err, gatewaydomain.ErrInvalidAmount),
		errors.Is(err, gatewaydomain.ErrMissingReceipt):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, quotationdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrCustomerNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, quotationdomain.ErrMissingField),
		errors.Is(err, paymentdomain.ErrMissingField),
		errors.Is(err, customerdomain.ErrMissingField):
		return "missing_required_field"
	case errors.Is(err, quotationdomain.ErrEmptyItems):
		return "empty_item_list"
	case errors.Is(err, quotationdomain.ErrInvalidItem):
		return "invalid_item_shape"
	case errors.Is(err, quotationdomain.ErrInvalidStatus),
		errors.Is(err, paymentdomain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, gatewaydomain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, paymentdomain.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, paymentdomain.ErrInvalidQuotation):
		return "invalid_quotation"
	default:
		return "invalid_request"
	}
}

// validationErrorField pulls the field name out of wrapped sentinel
// errors formatted as "<sentinel>: <field>".
func validationErrorField(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return "request"
}
