// internal/server/report_handler.go
package server

import (
	"net/http"
	"strings"

	"mira-backend/internal/pipeline"
)

// generateReportBody keeps the fields untyped so that a non-string
// value gets the same rejection message as a missing one.
type generateReportBody struct {
	InsuranceType interface{} `json:"insurance_type"`
	Country       interface{} `json:"country"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, s.cfg.Server.MaxBodyBytes)

	var body generateReportBody
	if err := decodeJSONBody(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, pipeline.Result{
			OK:    false,
			Error: "Request body must be valid JSON",
		})
		return
	}

	insuranceType, ok := body.InsuranceType.(string)
	if !ok || insuranceType == "" {
		writeJSON(w, http.StatusBadRequest, pipeline.Result{
			OK:    false,
			Error: "Insurance type is required and must be a string",
		})
		return
	}

	country, ok := body.Country.(string)
	if !ok || country == "" {
		writeJSON(w, http.StatusBadRequest, pipeline.Result{
			OK:    false,
			Error: "Country is required and must be a string",
		})
		return
	}

	insuranceType = strings.TrimSpace(insuranceType)
	country = strings.TrimSpace(country)

	if len(insuranceType) < 2 || len(insuranceType) > 100 {
		writeJSON(w, http.StatusBadRequest, pipeline.Result{
			OK:    false,
			Error: "Insurance type must be between 2 and 100 characters",
		})
		return
	}

	if len(country) < 2 || len(country) > 100 {
		writeJSON(w, http.StatusBadRequest, pipeline.Result{
			OK:    false,
			Error: "Country must be between 2 and 100 characters",
		})
		return
	}

	s.logger.Info("generating report", map[string]interface{}{
		"insuranceType": insuranceType,
		"country":       country,
	})

	result, err := s.generator.Generate(req.Context(), &pipeline.Request{
		InsuranceType: insuranceType,
		Country:       country,
	})
	if err != nil {
		s.logger.Error("report generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, pipeline.Result{
			OK:    false,
			Error: "Failed to generate report. Please try again later.",
		})
		return
	}

	// Expected pipeline failures still answer 200 with ok false; the
	// frontend renders result.Error directly.
	writeJSON(w, http.StatusOK, result)
}
