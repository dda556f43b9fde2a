package pagination

// CalculateOffset maps a 1-based page to the database OFFSET: page 1 starts
// at row 0.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages is ceil(total/limit); an empty result set has zero
// pages.
func CalculateTotalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
