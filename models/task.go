package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

type Task struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID    primitive.ObjectID  `bson:"projectId" json:"projectId"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	Status       TaskStatus          `bson:"status" json:"status"`
	AssignedTo   *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	DeadlineDays *int                `bson:"deadlineDays,omitempty" json:"deadlineDays,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// TaskWithAssignee je task sa imenom dodeljenog studenta za prikaz.
type TaskWithAssignee struct {
	Task         `bson:",inline"`
	AssigneeName string `json:"assigneeName,omitempty"`
}

// TaskUpdate nosi delimicnu izmenu taska; nil polja ostaju netaknuta.
type TaskUpdate struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Status       *TaskStatus         `json:"status,omitempty"`
	AssignedTo   *primitive.ObjectID `json:"assignedTo,omitempty"`
	DeadlineDays *int                `json:"deadlineDays,omitempty"`
}
