package utils

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// GetPaginationParams resolves optional offset and limit values into a usable page.
// Negative offsets fall back to 0, missing or non-positive limits to DefaultPageSize,
// and limits above MaxPageSize are capped.
func GetPaginationParams(offset *int, limit *int) (int, int) {
	finalOffset := 0
	if offset != nil && *offset > 0 {
		finalOffset = *offset
	}
	return finalOffset, ClampLimit(limit)
}

// ClampLimit returns the page size for an optional requested limit.
func ClampLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return DefaultPageSize
	}
	return min(*limit, MaxPageSize)
}
