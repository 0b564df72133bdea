package service

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ListResult is the service-level DTO for a paginated listing.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
