package domain

import (
	"errors"
	"time"
)

// SampleStatus tracks the physical specimen after collection
type SampleStatus string

const (
	SampleReceived SampleStatus = "RECEIVED"
	SampleTested   SampleStatus = "TESTED"
)

// Sample is the primary physical specimen for a request. A request gets
// exactly one once collection begins; secondary contributors are described
// by SubSamples.
type Sample struct {
	ID          string
	RequestID   string
	CollectorID string
	SampleType  string
	Status      SampleStatus
	ReceivedAt  time.Time
}

func NewSample(id, requestID, collectorID, sampleType string) (*Sample, error) {
	if id == "" {
		return nil, errors.New("sample ID is required")
	}
	if requestID == "" {
		return nil, errors.New("request ID is required")
	}
	if collectorID == "" {
		return nil, errors.New("collector ID is required")
	}
	if sampleType == "" {
		return nil, errors.New("sample type is required")
	}

	return &Sample{
		ID:          id,
		RequestID:   requestID,
		CollectorID: collectorID,
		SampleType:  sampleType,
		Status:      SampleReceived,
		ReceivedAt:  time.Now(),
	}, nil
}

func (s *Sample) MarkTested() {
	s.Status = SampleTested
}

// SubSample describes a secondary contributor on a sample, e.g. the child
// specimen alongside the alleged parent. Create/read only, no lifecycle.
type SubSample struct {
	ID              string
	SampleID        string
	ParticipantName string
	DateOfBirth     *time.Time
	SampleType      string
	CreatedAt       time.Time
}

func NewSubSample(id, sampleID, participantName, sampleType string, dateOfBirth *time.Time) (*SubSample, error) {
	if id == "" {
		return nil, errors.New("sub-sample ID is required")
	}
	if sampleID == "" {
		return nil, errors.New("sample ID is required")
	}
	if participantName == "" {
		return nil, errors.New("participant name is required")
	}

	return &SubSample{
		ID:              id,
		SampleID:        sampleID,
		ParticipantName: participantName,
		DateOfBirth:     dateOfBirth,
		SampleType:      sampleType,
		CreatedAt:       time.Now(),
	}, nil
}
