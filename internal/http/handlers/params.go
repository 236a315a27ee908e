package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/http/response"
)

func pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		response.RespondCatalogError(c, domainagg.NewError(domainagg.CodeValidation, "http.params", "invalid id: "+raw, err))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondCatalogError(c, domainagg.NewError(domainagg.CodeValidation, "http.body", "invalid request body", err))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		response.RespondCatalogError(c, domainagg.NewError(domainagg.CodeValidation, "http.params", "invalid "+key+": "+raw, err))
		return 0, false
	}
	return v, true
}
