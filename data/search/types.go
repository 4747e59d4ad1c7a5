package search

import "time"

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
)

// Hit is one flattened search hit: _index, _type, _id and _score, then the
// _source fields, then highlight when present.
type Hit map[string]any

// ID returns the hit's _id.
func (h Hit) ID() string {
	s, _ := h["_id"].(string)
	return s
}

// Result is the reshaped response of Get
type Result struct {
	Total    int64          `json:"total"`
	List     []Hit          `json:"list"`
	Aggs     map[string]any `json:"aggs,omitempty"`
	ScrollID string         `json:"scroll_id,omitempty"`
	Took     time.Duration  `json:"took"`
	Engine   Engine         `json:"engine"`
}

// Page is the reshaped response of Paginate. With collapse set, Total is
// the number of distinct collapse values and OriginalTotal the hit count.
type Page struct {
	Total         int64          `json:"total"`
	OriginalTotal int64          `json:"original_total"`
	PerPage       int            `json:"per_page"`
	CurrentPage   int            `json:"current_page"`
	LastPage      int            `json:"last_page"`
	List          []Hit          `json:"list"`
	Aggs          map[string]any `json:"aggs,omitempty"`
}
