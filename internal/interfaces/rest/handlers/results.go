package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/interfaces/rest"
)

type recordResultBody struct {
	UploadedBy string `json:"uploaded_by"`
	ApprovedBy string `json:"approved_by"`
	IsMatch    bool   `json:"is_match"`
	ReportPath string `json:"report_path,omitempty"`
}

func (h *Handlers) RecordResult(w http.ResponseWriter, r *http.Request) {
	var body recordResultBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	result, err := h.resultService.RecordResult(r.Context(), services.RecordResultCommand{
		SampleID:   r.PathValue("id"),
		UploadedBy: body.UploadedBy,
		ApprovedBy: body.ApprovedBy,
		IsMatch:    body.IsMatch,
		ReportPath: body.ReportPath,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, result)
}
