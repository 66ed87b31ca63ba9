// internal/models/product.go
package models

// CandidateProduct is an unverified insurance-product record parsed out
// of the research model's output. Field names follow the JSON contract
// the model is instructed to produce.
type CandidateProduct struct {
	ProductName    string   `json:"product_name"`
	Insurer        string   `json:"insurer"`
	Description    string   `json:"description"`
	TargetAudience string   `json:"target_audience,omitempty"`
	Benefits       []string `json:"benefits"`
	Coverage       string   `json:"coverage,omitempty"`
	URL            string   `json:"url"`
}

// VerifiedProduct is a candidate whose URL has been confirmed reachable
// or substituted by its domain root. Every VerifiedProduct carries a
// syntactically valid absolute URL.
type VerifiedProduct struct {
	ProductName    string   `json:"product_name"`
	Insurer        string   `json:"insurer"`
	Description    string   `json:"description"`
	TargetAudience string   `json:"target_audience,omitempty"`
	Benefits       []string `json:"benefits"`
	Coverage       string   `json:"coverage,omitempty"`
	URL            string   `json:"url"`
}

// Verified copies a candidate into its verified form with the given URL
// and description.
func (p CandidateProduct) Verified(url, description string) VerifiedProduct {
	return VerifiedProduct{
		ProductName:    p.ProductName,
		Insurer:        p.Insurer,
		Description:    description,
		TargetAudience: p.TargetAudience,
		Benefits:       p.Benefits,
		Coverage:       p.Coverage,
		URL:            url,
	}
}
