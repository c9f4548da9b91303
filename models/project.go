package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "OPEN"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectClosed     ProjectStatus = "CLOSED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectInProgress, ProjectClosed:
		return true
	}
	return false
}

type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Field       string               `bson:"field" json:"field"`
	TechStack   []string             `bson:"techStack" json:"techStack"`
	Duration    string               `bson:"duration,omitempty" json:"duration,omitempty"`
	Perks       string               `bson:"perks,omitempty" json:"perks,omitempty"`
	Status      ProjectStatus        `bson:"status" json:"status"`
	MentorID    *primitive.ObjectID  `bson:"mentorId,omitempty" json:"mentorId,omitempty"`
	ProfessorID *primitive.ObjectID  `bson:"professorId,omitempty" json:"professorId,omitempty"`
	StudentIDs  []primitive.ObjectID `bson:"studentIds" json:"studentIds"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// ProjectDetail je projekat sa pridruzenim supervizorima, studentima i
// podredjenim entitetima za prikaz jedne stranice projekta.
type ProjectDetail struct {
	Project      `bson:",inline"`
	Mentor       *MentorProfile    `json:"mentor,omitempty"`
	Professor    *ProfessorProfile `json:"professor,omitempty"`
	Students     []StudentProfile  `json:"students"`
	Applications []Application     `json:"applications"`
	Tasks        []Task            `json:"tasks"`
	Meetings     []Meeting         `json:"meetings"`
}
