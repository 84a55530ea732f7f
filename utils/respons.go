package utils

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hotel-app/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  bool   `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError memetakan kind error ke HTTP status. Kegagalan internal
// selalu keluar sebagai satu kind buram tanpa detail.
func RespondAppError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	message := err.Error()

	var code int
	switch kind {
	case apperrors.KindValidation:
		code = http.StatusBadRequest
	case apperrors.KindAuthorization:
		code = http.StatusForbidden
	case apperrors.KindConflict:
		code = http.StatusConflict
	case apperrors.KindNotFound:
		code = http.StatusNotFound
	case apperrors.KindInvalidTransition:
		code = http.StatusUnprocessableEntity
	default:
		code = http.StatusInternalServerError
		message = "internal server error"
	}

	c.JSON(code, ErrorResponse{
		Status:  false,
		Kind:    kind,
		Message: message,
	})
}

// FormatCurrency memformat angka dengan pemisah ribuan dan 2 desimal
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(formatted, ".")
	return groupThousands(parts[0]) + "," + parts[1]
}
