package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"collabnest/backend/errs"
	"collabnest/backend/models"
)

func newApplicationServiceForMock(mt *mtest.T) *ApplicationService {
	db := mt.Client.Database("collabnest")
	return &ApplicationService{
		Client:                 mt.Client,
		ApplicationsCollection: db.Collection("applications"),
		ProjectsCollection:     db.Collection("projects"),
		StudentsCollection:     db.Collection("students"),
		UsersCollection:        db.Collection("users"),
		Notifications: &NotificationService{
			NotificationsCollection: db.Collection("notifications"),
			UsersCollection:         db.Collection("users"),
		},
	}
}

func projectDoc(projectID, mentorID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: projectID},
		{Key: "title", Value: "Smart Campus"},
		{Key: "status", Value: "OPEN"},
		{Key: "mentorId", Value: mentorID},
	}
}

func studentDoc(studentID, userID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: studentID},
		{Key: "userId", Value: userID},
		{Key: "name", Value: "Milica"},
	}
}

func applicationDoc(applicationID, studentID, projectID primitive.ObjectID, status models.ApplicationStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: applicationID},
		{Key: "studentId", Value: studentID},
		{Key: "projectId", Value: projectID},
		{Key: "status", Value: string(status)},
	}
}

func TestApplyRejectsExistingApplication(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate application is a conflict", func(mt *mtest.T) {
		service := newApplicationServiceForMock(mt)
		projectID := primitive.NewObjectID()
		studentID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.projects", mtest.FirstBatch, projectDoc(projectID, primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, "collabnest.students", mtest.FirstBatch, studentDoc(studentID, primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, "collabnest.applications", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		_, err := service.Apply(context.Background(), studentID, projectID)
		if !errors.Is(err, errs.ErrConflict) {
			t.Fatalf("Apply with an existing application = %v, want conflict", err)
		}
	})

	mt.Run("concurrent duplicate insert is a conflict", func(mt *mtest.T) {
		service := newApplicationServiceForMock(mt)
		projectID := primitive.NewObjectID()
		studentID := primitive.NewObjectID()

		// Prva prijava prolazi proveru duplikata, druga stigne pre upisa;
		// unique indeks obara insert i to mora da se prijavi kao konflikt.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.projects", mtest.FirstBatch, projectDoc(projectID, primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, "collabnest.students", mtest.FirstBatch, studentDoc(studentID, primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, "collabnest.applications", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
		)

		_, err := service.Apply(context.Background(), studentID, projectID)
		if !errors.Is(err, errs.ErrConflict) {
			t.Fatalf("Apply racing an identical application = %v, want conflict", err)
		}
	})
}

func TestUpdateStatusApproveCommitsEnrollmentAndNotification(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("approve updates status, enrolls student and notifies", func(mt *mtest.T) {
		service := newApplicationServiceForMock(mt)
		applicationID := primitive.NewObjectID()
		projectID := primitive.NewObjectID()
		studentID := primitive.NewObjectID()
		mentorID := primitive.NewObjectID()
		actor := models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleMentor, MentorID: &mentorID}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.applications", mtest.FirstBatch,
				applicationDoc(applicationID, studentID, projectID, models.ApplicationPending)),
			mtest.CreateCursorResponse(0, "collabnest.projects", mtest.FirstBatch, projectDoc(projectID, mentorID)),
			mtest.CreateCursorResponse(0, "collabnest.students", mtest.FirstBatch, studentDoc(studentID, primitive.NewObjectID())),
			// Transakcija: status prijave, upis studenta, notifikacija, commit.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		application, err := service.UpdateStatus(context.Background(), applicationID, models.ApplicationApproved, actor)
		if err != nil {
			t.Fatalf("UpdateStatus(APPROVED) returned error: %v", err)
		}
		if application.Status != models.ApplicationApproved {
			t.Errorf("application status = %s, want %s", application.Status, models.ApplicationApproved)
		}
	})

	mt.Run("failed notification aborts the whole decision", func(mt *mtest.T) {
		service := newApplicationServiceForMock(mt)
		applicationID := primitive.NewObjectID()
		projectID := primitive.NewObjectID()
		studentID := primitive.NewObjectID()
		mentorID := primitive.NewObjectID()
		actor := models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleMentor, MentorID: &mentorID}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.applications", mtest.FirstBatch,
				applicationDoc(applicationID, studentID, projectID, models.ApplicationPending)),
			mtest.CreateCursorResponse(0, "collabnest.projects", mtest.FirstBatch, projectDoc(projectID, mentorID)),
			mtest.CreateCursorResponse(0, "collabnest.students", mtest.FirstBatch, studentDoc(studentID, primitive.NewObjectID())),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 8, Name: "UnknownError", Message: "insert failed"}),
			mtest.CreateSuccessResponse(),
		)

		if _, err := service.UpdateStatus(context.Background(), applicationID, models.ApplicationRejected, actor); err == nil {
			t.Fatal("UpdateStatus should fail when the notification insert fails, so the status change is rolled back")
		}
	})
}

func TestUpdateStatusConflictsWhenAlreadyResolved(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("concurrent decision loses on the status filter", func(mt *mtest.T) {
		service := newApplicationServiceForMock(mt)
		applicationID := primitive.NewObjectID()
		projectID := primitive.NewObjectID()
		studentID := primitive.NewObjectID()
		mentorID := primitive.NewObjectID()
		actor := models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleMentor, MentorID: &mentorID}

		// Prijava je PENDING u trenutku čitanja, ali je druga odluka stigne
		// pre transakcije: filter po statusu ne pogodi nijedan dokument.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.applications", mtest.FirstBatch,
				applicationDoc(applicationID, studentID, projectID, models.ApplicationPending)),
			mtest.CreateCursorResponse(0, "collabnest.projects", mtest.FirstBatch, projectDoc(projectID, mentorID)),
			mtest.CreateCursorResponse(0, "collabnest.students", mtest.FirstBatch, studentDoc(studentID, primitive.NewObjectID())),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(),
		)

		_, err := service.UpdateStatus(context.Background(), applicationID, models.ApplicationApproved, actor)
		if !errors.Is(err, errs.ErrConflict) {
			t.Fatalf("UpdateStatus on an already resolved application = %v, want conflict", err)
		}
	})

	mt.Run("terminal status read up front is rejected", func(mt *mtest.T) {
		service := newApplicationServiceForMock(mt)
		applicationID := primitive.NewObjectID()
		projectID := primitive.NewObjectID()
		mentorID := primitive.NewObjectID()
		actor := models.Actor{UserID: primitive.NewObjectID(), Role: models.RoleMentor, MentorID: &mentorID}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.applications", mtest.FirstBatch,
				applicationDoc(applicationID, primitive.NewObjectID(), projectID, models.ApplicationRejected)),
			mtest.CreateCursorResponse(0, "collabnest.projects", mtest.FirstBatch, projectDoc(projectID, mentorID)),
		)

		_, err := service.UpdateStatus(context.Background(), applicationID, models.ApplicationApproved, actor)
		if !errors.Is(err, errs.ErrInvalidInput) {
			t.Fatalf("UpdateStatus on a final application = %v, want invalid input", err)
		}
	})
}
