package params

import (
	"strconv"

	"studio-api/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams carries the common list-endpoint query arguments.
type QueryParams struct {
	Search     string
	PageNumber int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// FromEchoContext binds search and pagination query arguments with defaults.
func FromEchoContext(ctx echo.Context) QueryParams {
	p := QueryParams{
		Search:     ctx.QueryParam("search"),
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
		SortBy:     ctx.QueryParam("sort_by"),
		SortOrder:  ctx.QueryParam("sort_order"),
	}

	if n, err := strconv.Atoi(ctx.QueryParam("page_number")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(ctx.QueryParam("page_size")); err == nil && n > 0 {
		p.PageSize = n
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = "desc"
	}

	return p
}
