package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	ApplicationPending            ApplicationStatus = "PENDING"
	ApplicationApproved           ApplicationStatus = "APPROVED"
	ApplicationRejected           ApplicationStatus = "REJECTED"
	ApplicationInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
)

// Terminal vraca true za statuse iz kojih nema daljih prelaza.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

type Application struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	Status    ApplicationStatus  `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ApplicationWithStudent je projekcija za mentore/profesore: prijava sa
// kontakt podacima studenta.
type ApplicationWithStudent struct {
	Application  `bson:",inline"`
	StudentName  string `bson:"studentName" json:"studentName"`
	StudentEmail string `bson:"studentEmail" json:"studentEmail"`
}
