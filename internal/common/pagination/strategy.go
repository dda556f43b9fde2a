package pagination

// PaginationStrategy abstracts how list queries are windowed, so cursor or
// keyset listing can be added without touching handlers or services.
type PaginationStrategy interface {
	CalculateQuery(params Params) QueryParams
	// BuildMetadata turns query results into response metadata. hasMore is
	// only meaningful for cursor strategies.
	BuildMetadata(params Params, total int64, hasMore bool) Metadata
}

// QueryParams is what the repository layer consumes. Cursor and After stay
// nil under offset pagination.
type QueryParams struct {
	Offset int
	Limit  int
	Cursor *string
	After  *string
}

// OffsetStrategy is the strategy in use today: plain OFFSET/LIMIT.
type OffsetStrategy struct{}

func (s OffsetStrategy) CalculateQuery(params Params) QueryParams {
	return QueryParams{
		Offset: CalculateOffset(params.Page, params.Limit),
		Limit:  params.Limit,
	}
}

func (s OffsetStrategy) BuildMetadata(params Params, total int64, hasMore bool) Metadata {
	return Metadata{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: CalculateTotalPages(total, params.Limit),
	}
}
