// internal/stages/validate-inputs/models.go
package validateinputs

type Input struct {
	InsuranceType string `json:"insurance_type"`
	Country       string `json:"country"`
}

// Output mirrors the JSON object the classification model is instructed
// to return.
type Output struct {
	IsValid                 bool   `json:"isValid"`
	NormalizedInsuranceType string `json:"normalizedInsuranceType"`
	NormalizedCountry       string `json:"normalizedCountry"`
	Error                   string `json:"error"`
}
