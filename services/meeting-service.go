package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"collabnest/backend/errs"
	"collabnest/backend/models"
)

type MeetingService struct {
	MeetingsCollection *mongo.Collection
	ProjectsCollection *mongo.Collection
}

// ScheduleMeeting zakazuje sastanak na projektu; dozvoljeno samo
// dodeljenom mentoru/profesoru.
func (s *MeetingService) ScheduleMeeting(ctx context.Context, projectID primitive.ObjectID, title string, scheduledAt time.Time, meetingLink string, actor models.Actor) (*models.Meeting, error) {
	if title == "" {
		return nil, errs.InvalidInput("meeting title is required")
	}
	if scheduledAt.Before(time.Now()) {
		return nil, errs.InvalidInput("meeting must be scheduled in the future")
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}
	if !IsProjectSupervisor(actor, &project) {
		return nil, errs.Forbidden("only the assigned mentor or professor can schedule meetings")
	}

	meeting := models.Meeting{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		Title:       title,
		ScheduledAt: scheduledAt,
		MeetingLink: meetingLink,
		CreatedAt:   time.Now(),
	}
	if _, err := s.MeetingsCollection.InsertOne(ctx, meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// GetForProject vraća sastanke projekta. Vidljivi su supervizorima i
// upisanim studentima.
func (s *MeetingService) GetForProject(ctx context.Context, projectID primitive.ObjectID, actor models.Actor) ([]models.Meeting, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}

	enrolled := false
	if actor.StudentID != nil {
		for _, id := range project.StudentIDs {
			if id == *actor.StudentID {
				enrolled = true
				break
			}
		}
	}
	if !IsProjectSupervisor(actor, &project) && !enrolled {
		return nil, errs.Forbidden("only project participants can view meetings")
	}

	cursor, err := s.MeetingsCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	meetings := []models.Meeting{}
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}
