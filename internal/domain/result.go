package domain

import (
	"errors"
	"time"
)

// TestResult is the authoritative outcome for a sample. At most one exists
// per sample; a second upload is rejected, never overwritten.
type TestResult struct {
	ID         string
	SampleID   string
	UploadedBy string
	ApprovedBy string
	IsMatch    bool
	ReportPath string // opaque pointer to the result document

	CreatedAt time.Time
}

func NewTestResult(id, sampleID, uploadedBy, approvedBy string, isMatch bool, reportPath string) (*TestResult, error) {
	if id == "" {
		return nil, errors.New("result ID is required")
	}
	if sampleID == "" {
		return nil, errors.New("sample ID is required")
	}
	if uploadedBy == "" {
		return nil, errors.New("uploader ID is required")
	}
	if approvedBy == "" {
		return nil, errors.New("approver ID is required")
	}

	return &TestResult{
		ID:         id,
		SampleID:   sampleID,
		UploadedBy: uploadedBy,
		ApprovedBy: approvedBy,
		IsMatch:    isMatch,
		ReportPath: reportPath,
		CreatedAt:  time.Now(),
	}, nil
}
