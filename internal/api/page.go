package api

// Page is the backend's paginated envelope.
type Page[T any] struct {
	Message       *string `json:"message"`
	Content       []T     `json:"content"`
	PageNumber    int     `json:"pageNumber"`
	PageSize      int     `json:"pageSize"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	LastPage      bool    `json:"lastPage"`
}

const (
	DefaultPageSize  = 10
	DefaultSortBy    = "id"
	DefaultSortOrder = "asc"
)

// PageQuery selects a page. Zero values fall back to page 0, size 10, sort by id ascending.
type PageQuery struct {
	PageNumber int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// WithDefaults fills every unset field.
func (q PageQuery) WithDefaults() PageQuery {
	if q.PageNumber < 0 {
		q.PageNumber = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		q.SortOrder = DefaultSortOrder
	}
	return q
}

// Params renders pageNumber, pageSize, sortBy and sortOrder.
func (q PageQuery) Params() Params {
	q = q.WithDefaults()
	return Params{
		"pageNumber": q.PageNumber,
		"pageSize":   q.PageSize,
		"sortBy":     q.SortBy,
		"sortOrder":  q.SortOrder,
	}
}

// PagingParams renders only pageNumber and pageSize, for endpoints without sorting.
func (q PageQuery) PagingParams() Params {
	q = q.WithDefaults()
	return Params{
		"pageNumber": q.PageNumber,
		"pageSize":   q.PageSize,
	}
}
