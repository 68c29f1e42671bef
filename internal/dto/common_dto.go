package dto

// Pagination is embedded in every list filter bound from the query string.
type Pagination struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// PageResponse is the envelope of every paginated list.
type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// DeleteManyResponse reports how many rows a bulk delete removed.
type DeleteManyResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type UploadResponse struct {
	URLs []string `json:"urls"`
}
