package postgres

import (
	"github.com/lamvd/dnalab-gateway/internal/domain"
)

func orderToDomain(m OrderModel) *domain.TestRequest {
	return &domain.TestRequest{
		ID:               m.ID,
		UserID:           m.UserID,
		StaffID:          m.StaffID,
		ServiceID:        m.ServiceID,
		CollectionMethod: domain.CollectionMethod(m.CollectionMethod),
		Status:           domain.OrderStatus(m.Status),
		AppointmentAt:    m.AppointmentAt,
		CreatedAt:        m.CreatedAt,
	}
}

func orderToModel(r *domain.TestRequest) *OrderModel {
	return &OrderModel{
		ID:               r.ID,
		UserID:           r.UserID,
		StaffID:          r.StaffID,
		ServiceID:        r.ServiceID,
		CollectionMethod: string(r.CollectionMethod),
		Status:           string(r.Status),
		AppointmentAt:    r.AppointmentAt,
		CreatedAt:        r.CreatedAt,
	}
}

func paymentToDomain(m PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:        m.ID,
		RequestID: m.RequestID,
		Method:    m.Method,
		Amount:    m.Amount,
		Status:    domain.PaymentStatus(m.Status),
		PaidAt:    m.PaidAt,
		Token:     m.Token,
		CreatedAt: m.CreatedAt,
	}
}

func paymentToModel(p *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:        p.ID,
		RequestID: p.RequestID,
		Method:    p.Method,
		Amount:    p.Amount,
		Status:    string(p.Status),
		PaidAt:    p.PaidAt,
		Token:     p.Token,
		CreatedAt: p.CreatedAt,
	}
}

func sampleToDomain(m SampleModel) *domain.Sample {
	return &domain.Sample{
		ID:          m.ID,
		RequestID:   m.RequestID,
		CollectorID: m.CollectorID,
		SampleType:  m.SampleType,
		Status:      domain.SampleStatus(m.Status),
		ReceivedAt:  m.ReceivedAt,
	}
}

func subSampleToDomain(m SubSampleModel) *domain.SubSample {
	return &domain.SubSample{
		ID:              m.ID,
		SampleID:        m.SampleID,
		ParticipantName: m.ParticipantName,
		DateOfBirth:     m.DateOfBirth,
		SampleType:      m.SampleType,
		CreatedAt:       m.CreatedAt,
	}
}

func resultToDomain(m ResultModel) *domain.TestResult {
	return &domain.TestResult{
		ID:         m.ID,
		SampleID:   m.SampleID,
		UploadedBy: m.UploadedBy,
		ApprovedBy: m.ApprovedBy,
		IsMatch:    m.IsMatch,
		ReportPath: m.ReportPath,
		CreatedAt:  m.CreatedAt,
	}
}
