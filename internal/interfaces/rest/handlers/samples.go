package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/interfaces/rest"
)

type recordSampleBody struct {
	CollectorID string `json:"collector_id"`
	SampleType  string `json:"sample_type"`
}

func (h *Handlers) RecordSample(w http.ResponseWriter, r *http.Request) {
	var body recordSampleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	sample, err := h.sampleService.RecordPrimarySample(r.Context(), services.RecordSampleCommand{
		RequestID:   r.PathValue("id"),
		CollectorID: body.CollectorID,
		SampleType:  body.SampleType,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, sample)
}

type recordSubSampleBody struct {
	ParticipantName string     `json:"participant_name"`
	SampleType      string     `json:"sample_type,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
}

func (h *Handlers) RecordSubSample(w http.ResponseWriter, r *http.Request) {
	var body recordSubSampleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	sub, err := h.sampleService.RecordSubSample(r.Context(), services.RecordSubSampleCommand{
		SampleID:        r.PathValue("id"),
		ParticipantName: body.ParticipantName,
		SampleType:      body.SampleType,
		DateOfBirth:     body.DateOfBirth,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, sub)
}
