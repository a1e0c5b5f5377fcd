package dto

// ListParams is the query string accepted by every collection endpoint.
type ListParams struct {
	PageNumber int    `form:"pageNumber" json:"pageNumber" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" json:"pageSize" binding:"omitempty,min=1"`
	SortBy     string `form:"sortBy" json:"sortBy"`
	SortOrder  string `form:"sortOrder" json:"sortOrder"`
	Filter     string `form:"filter" json:"filter"`
}

type SearchParams struct {
	Query string `form:"q" json:"q" binding:"required"`
	Limit int    `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
