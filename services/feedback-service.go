package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabnest/backend/errs"
	"collabnest/backend/models"
)

type FeedbackService struct {
	FeedbackCollection *mongo.Collection
	UsersCollection    *mongo.Collection
}

// SubmitFeedback čuva poruku korisnika za admine.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, userID primitive.ObjectID, message string) (*models.Feedback, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errs.InvalidInput("feedback message is required")
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("user not found")
		}
		return nil, err
	}

	feedback := models.Feedback{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if _, err := s.FeedbackCollection.InsertOne(ctx, feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// GetFeedback vraća sve poruke, najnovije prve, sa podacima korisnika.
func (s *FeedbackService) GetFeedback(ctx context.Context, page, limit int) ([]models.FeedbackWithUser, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.FeedbackCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := s.FeedbackCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []models.Feedback
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	result := []models.FeedbackWithUser{}
	for _, item := range items {
		entry := models.FeedbackWithUser{Feedback: item}
		var user models.User
		if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": item.UserID}).Decode(&user); err == nil {
			entry.UserEmail = user.Email
		}
		result = append(result, entry)
	}
	return result, total, nil
}
