package postgres

import "time"

type OrderModel struct {
	ID               string
	UserID           string
	StaffID          *string
	ServiceID        string
	CollectionMethod string
	Status           string
	AppointmentAt    *time.Time
	CreatedAt        time.Time
}

type PaymentModel struct {
	ID        string
	RequestID string
	Method    string
	Amount    int64
	Status    string
	PaidAt    *time.Time
	Token     *string
	CreatedAt time.Time
}

type SampleModel struct {
	ID          string
	RequestID   string
	CollectorID string
	SampleType  string
	Status      string
	ReceivedAt  time.Time
}

type SubSampleModel struct {
	ID              string
	SampleID        string
	ParticipantName string
	DateOfBirth     *time.Time
	SampleType      string
	CreatedAt       time.Time
}

type ResultModel struct {
	ID         string
	SampleID   string
	UploadedBy string
	ApprovedBy string
	IsMatch    bool
	ReportPath string
	CreatedAt  time.Time
}
