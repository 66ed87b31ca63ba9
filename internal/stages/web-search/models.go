// internal/stages/web-search/models.go
package websearch

type Input struct {
	Query string `json:"query"`
}

// Output carries the search grounding, or nothing. An empty Context
// means "no context available" and the pipeline continues without it.
type Output struct {
	Context     string `json:"context"`
	ResultCount int    `json:"resultCount"`
}
