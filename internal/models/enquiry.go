package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const EnquiriesCollection = "enquiries"

// EnquiryStatus is the closed set of enquiry states. Transitions only move
// forward: pending -> in-progress -> completed.
type EnquiryStatus string

const (
	StatusPending    EnquiryStatus = "pending"
	StatusInProgress EnquiryStatus = "in-progress"
	StatusCompleted  EnquiryStatus = "completed"
)

func (s EnquiryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is the immediate successor of s.
func (s EnquiryStatus) CanTransitionTo(next EnquiryStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted
	case StatusCompleted:
		return false
	default:
		return false
	}
}

type Enquiry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PatientName  string             `bson:"patient_name"`
	PatientEmail string             `bson:"patient_email"`
	PatientPhone string             `bson:"patient_phone"`
	Subject      string             `bson:"subject"`
	Message      string             `bson:"message"`
	Status       EnquiryStatus      `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type EnquiryResponse struct {
	ID           string        `json:"id"`
	PatientName  string        `json:"patient_name"`
	PatientEmail string        `json:"patient_email"`
	PatientPhone string        `json:"patient_phone"`
	Subject      string        `json:"subject"`
	Message      string        `json:"message"`
	Status       EnquiryStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

func NewEnquiryResponse(e *Enquiry) *EnquiryResponse {
	return &EnquiryResponse{
		ID:           e.ID.Hex(),
		PatientName:  e.PatientName,
		PatientEmail: e.PatientEmail,
		PatientPhone: e.PatientPhone,
		Subject:      e.Subject,
		Message:      e.Message,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
	}
}
