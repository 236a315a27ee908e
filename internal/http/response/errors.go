package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
)

// StatusForCode maps catalog error codes to HTTP statuses.
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeDuplicateName, domainagg.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondCatalogError writes err using its catalog code. Uncoded errors are
// reported as internal.
func RespondCatalogError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	_ = c.Error(err)
	RespondError(c, StatusForCode(code), string(code), err)
}
