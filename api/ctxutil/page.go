package ctxutil

import (
	"strconv"
	"strings"

	"ordersvc/domain/shared"

	"github.com/gin-gonic/gin"
)

// PageRequest 解析 ?page=0&size=20&sort=field,dir 查询参数。
// 未给 sort 时 SortField 为空，由应用层套用各自的默认排序。
func PageRequest(ctx *gin.Context, entity string) (shared.PageRequest, error) {
	var page shared.PageRequest

	if raw := ctx.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > shared.MaxPage {
			return page, shared.NewValidationError(entity, "page",
				"page must be between 0 and "+strconv.Itoa(shared.MaxPage))
		}
		page.Page = n
	}
	if raw := ctx.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > shared.MaxPageSize {
			return page, shared.NewValidationError(entity, "size",
				"size must be between 1 and "+strconv.Itoa(shared.MaxPageSize))
		}
		page.Size = n
	}
	if raw := strings.TrimSpace(ctx.Query("sort")); raw != "" {
		field, dir, _ := strings.Cut(raw, ",")
		page.SortField = strings.TrimSpace(field)
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			page.SortDesc = true
		default:
			return page, shared.NewValidationError(entity, "sort", "sort direction must be asc or desc")
		}
	}
	return page, nil
}
