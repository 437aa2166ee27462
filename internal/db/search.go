package db

// KNNQuery is the input for vector similarity search. Filter is an exact-match
// predicate over TAG fields; an empty filter matches all documents.
type KNNQuery struct {
	IndexName    string
	Filter       map[string]string
	Vector       []float32
	K            int
	ReturnFields []string
}

// ListQuery is the input for a filtered document listing.
type ListQuery struct {
	IndexName string
	Filter    map[string]string
	Offset    int
	Limit     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// For KNN results, Distance is the raw vector distance reported by the index.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
