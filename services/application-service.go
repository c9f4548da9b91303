package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"collabnest/backend/errs"
	"collabnest/backend/logging"
	"collabnest/backend/models"
	"collabnest/backend/repositories"
)

type ApplicationService struct {
	Client                 *mongo.Client
	ApplicationsCollection *mongo.Collection
	ProjectsCollection     *mongo.Collection
	StudentsCollection     *mongo.Collection
	UsersCollection        *mongo.Collection
	Notifications          *NotificationService
	Activity               *repositories.ActivityRepo

	// AllowReapplyAfterRejection dozvoljava novu prijavu posle odbijanja.
	AllowReapplyAfterRejection bool
}

// Apply kreira PENDING prijavu studenta na projekat. Duplikat prijave je
// Conflict; trku dve istovremene prijave zatvara parcijalni unique indeks
// na (studentId, projectId) za neterminalne statuse.
func (s *ApplicationService) Apply(ctx context.Context, studentID, projectID primitive.ObjectID) (*models.Application, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}

	var student models.StudentProfile
	if err := s.StudentsCollection.FindOne(ctx, bson.M{"_id": studentID}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("student profile not found")
		}
		return nil, err
	}

	dupFilter := bson.M{"studentId": studentID, "projectId": projectID}
	if s.AllowReapplyAfterRejection {
		// Blokiraju samo prijave koje još nisu rešene i odobrene.
		dupFilter["status"] = bson.M{"$in": bson.A{
			models.ApplicationPending,
			models.ApplicationInterviewScheduled,
			models.ApplicationApproved,
		}}
	}
	count, err := s.ApplicationsCollection.CountDocuments(ctx, dupFilter)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errs.Conflict("you have already applied for this project")
	}

	application := models.Application{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		ProjectID: projectID,
		Status:    models.ApplicationPending,
		CreatedAt: time.Now(),
	}
	if _, err := s.ApplicationsCollection.InsertOne(ctx, application); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.Conflict("you have already applied for this project")
		}
		return nil, err
	}

	s.Activity.Record(projectID.Hex(), repositories.ActivityApplicationCreated,
		fmt.Sprintf("student %s applied", studentID.Hex()))

	return &application, nil
}

// allowedDecision proverava da li je zadati status dozvoljena odluka
// mentora/profesora nad prijavom.
func allowedDecision(status models.ApplicationStatus) bool {
	switch status {
	case models.ApplicationApproved, models.ApplicationRejected, models.ApplicationInterviewScheduled:
		return true
	}
	return false
}

// DecisionMessage sastavlja poruku notifikacije za odluku nad prijavom.
func DecisionMessage(projectTitle string, status models.ApplicationStatus) string {
	if status == models.ApplicationApproved {
		return fmt.Sprintf("Your application for project %q has been approved!", projectTitle)
	}
	return fmt.Sprintf("Your application for project %q has been %s.",
		projectTitle, strings.ToLower(strings.ReplaceAll(string(status), "_", " ")))
}

// UpdateStatus sprovodi odluku nad prijavom. Za APPROVED se promena statusa,
// upis studenta u projekat i notifikacija dešavaju u jednoj transakciji;
// za ostale odluke transakcija nosi status i notifikaciju.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID primitive.ObjectID, newStatus models.ApplicationStatus, actor models.Actor) (*models.Application, error) {
	var application models.Application
	if err := s.ApplicationsCollection.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("application not found")
		}
		return nil, err
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": application.ProjectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}

	if !IsProjectSupervisor(actor, &project) {
		return nil, errs.Forbidden("only the assigned mentor or professor can update applications")
	}

	if !allowedDecision(newStatus) {
		return nil, errs.InvalidInput("invalid status value")
	}
	if application.Status.Terminal() {
		return nil, errs.InvalidInput("application status is final")
	}

	// Notifikacija ide korisniku iza studentskog profila.
	var student models.StudentProfile
	if err := s.StudentsCollection.FindOne(ctx, bson.M{"_id": application.StudentID}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("student profile not found")
		}
		return nil, err
	}

	message := DecisionMessage(project.Title, newStatus)

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Filter po statusu zatvara trku dve istovremene odluke: samo
		// jedna može da pogodi prijavu koja još nije rešena.
		result, err := s.ApplicationsCollection.UpdateOne(sc,
			bson.M{
				"_id":    applicationID,
				"status": bson.M{"$nin": bson.A{models.ApplicationApproved, models.ApplicationRejected}},
			},
			bson.M{"$set": bson.M{"status": newStatus}},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, errs.Conflict("application has already been resolved")
		}

		if newStatus == models.ApplicationApproved {
			_, err := s.ProjectsCollection.UpdateOne(sc,
				bson.M{"_id": application.ProjectID},
				bson.M{"$addToSet": bson.M{"studentIds": application.StudentID}},
			)
			if err != nil {
				return nil, err
			}
		}

		if err := s.Notifications.Create(sc, student.UserID, message); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifications.SendEmailCopy(student.UserID, message)

	logging.Logger.Infof("Event ID: APPLICATION_STATUS_UPDATED, Description: Application %s moved to %s", applicationID.Hex(), newStatus)
	s.Activity.Record(application.ProjectID.Hex(), repositories.ActivityApplicationDecision,
		fmt.Sprintf("application %s -> %s", applicationID.Hex(), newStatus))

	application.Status = newStatus
	return &application, nil
}

// GetForProject vraća prijave na projekat sa kontakt podacima studenata.
// Vidljive su samo dodeljenom mentoru/profesoru.
func (s *ApplicationService) GetForProject(ctx context.Context, projectID primitive.ObjectID, actor models.Actor) ([]models.ApplicationWithStudent, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}

	if !IsProjectSupervisor(actor, &project) {
		return nil, errs.Forbidden("only the assigned mentor or professor can view applications")
	}

	cursor, err := s.ApplicationsCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var applications []models.Application
	if err := cursor.All(ctx, &applications); err != nil {
		return nil, err
	}

	result := []models.ApplicationWithStudent{}
	for _, application := range applications {
		entry := models.ApplicationWithStudent{Application: application}

		var student models.StudentProfile
		if err := s.StudentsCollection.FindOne(ctx, bson.M{"_id": application.StudentID}).Decode(&student); err == nil {
			entry.StudentName = student.Name
			var user models.User
			if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": student.UserID}).Decode(&user); err == nil {
				entry.StudentEmail = user.Email
			}
		}
		result = append(result, entry)
	}
	return result, nil
}
