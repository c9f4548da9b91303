package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Meeting struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Title       string             `bson:"title" json:"title"`
	ScheduledAt time.Time          `bson:"scheduledAt" json:"scheduledAt"`
	MeetingLink string             `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
