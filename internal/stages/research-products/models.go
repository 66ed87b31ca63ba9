// internal/stages/research-products/models.go
package researchproducts

import "mira-backend/internal/models"

type Input struct {
	InsuranceType string `json:"insurance_type"`
	Country       string `json:"country"`
	SearchContext string `json:"search_context"`
}

type Output struct {
	Products []models.CandidateProduct `json:"products"`
}
