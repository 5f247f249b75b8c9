package services

import "time"

type CreateRequestCommand struct {
	UserID           string
	ServiceID        string
	CollectionMethod string
	AppointmentAt    *time.Time
}

type CheckoutCommand struct {
	RequestID string
	Method    string
	Amount    int64 // minor units
	ClientIP  string
	Locale    string
}

type RecordSampleCommand struct {
	RequestID   string
	CollectorID string
	SampleType  string
}

type RecordSubSampleCommand struct {
	SampleID        string
	ParticipantName string
	SampleType      string
	DateOfBirth     *time.Time
}

type RecordResultCommand struct {
	SampleID   string
	UploadedBy string
	ApprovedBy string
	IsMatch    bool
	ReportPath string
}
