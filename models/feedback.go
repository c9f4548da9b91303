package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// FeedbackWithUser je projekcija za admin pregled.
type FeedbackWithUser struct {
	Feedback  `bson:",inline"`
	UserEmail string `bson:"userEmail" json:"userEmail"`
}
