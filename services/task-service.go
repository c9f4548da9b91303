package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"collabnest/backend/errs"
	"collabnest/backend/logging"
	"collabnest/backend/models"
	"collabnest/backend/repositories"
)

type TaskService struct {
	Client             *mongo.Client
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	StudentsCollection *mongo.Collection
	Notifications      *NotificationService
	Activity           *repositories.ActivityRepo
}

// loadProjectForTaskWrite učitava projekat i proverava da li akter sme da
// menja njegove taskove. Autorizacija ide pre svake izmene.
func (s *TaskService) loadProjectForTaskWrite(ctx context.Context, projectID primitive.ObjectID, actor models.Actor) (*models.Project, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}
	if !IsProjectSupervisor(actor, &project) {
		return nil, errs.Forbidden("only the assigned mentor or professor can manage tasks for this project")
	}
	return &project, nil
}

// CreateTask kreira PENDING task bez dodeljenog studenta.
func (s *TaskService) CreateTask(ctx context.Context, projectID primitive.ObjectID, title, description string, actor models.Actor) (*models.Task, error) {
	if title == "" {
		return nil, errs.InvalidInput("task title is required")
	}
	if _, err := s.loadProjectForTaskWrite(ctx, projectID, actor); err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      models.TaskPending,
		CreatedAt:   time.Now(),
	}
	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	s.Activity.Record(projectID.Hex(), repositories.ActivityTaskCreated, fmt.Sprintf("task %q created", title))
	return &task, nil
}

// AssignTask dodeljuje task studentu sa rokom u danima. Ponovno dodeljivanje
// je dozvoljeno — poslednji upis važi. Izmena taska i notifikacija studentu
// idu u jednoj transakciji.
func (s *TaskService) AssignTask(ctx context.Context, taskID, studentID primitive.ObjectID, deadlineDays int, actor models.Actor) (*models.Task, error) {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("task not found")
		}
		return nil, err
	}

	project, err := s.loadProjectForTaskWrite(ctx, task.ProjectID, actor)
	if err != nil {
		return nil, err
	}

	var student models.StudentProfile
	if err := s.StudentsCollection.FindOne(ctx, bson.M{"_id": studentID}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("student profile not found")
		}
		return nil, err
	}

	message := fmt.Sprintf("You have been assigned the task %q for project %q, due in %d days",
		task.Title, project.Title, deadlineDays)

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := s.TasksCollection.UpdateOne(sc,
			bson.M{"_id": taskID},
			bson.M{"$set": bson.M{"assignedTo": studentID, "deadlineDays": deadlineDays}},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, errs.NotFound("task not found")
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
	s.Activity.Record(task.ProjectID.Hex(), repositories.ActivityTaskAssigned,
		fmt.Sprintf("task %s assigned to student %s", taskID.Hex(), studentID.Hex()))

	task.AssignedTo = &studentID
	task.DeadlineDays = &deadlineDays
	return &task, nil
}

// UpdateTask delimično menja task; nil polja ostaju netaknuta.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, update models.TaskUpdate, actor models.Actor) (*models.Task, error) {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("task not found")
		}
		return nil, err
	}

	if _, err := s.loadProjectForTaskWrite(ctx, task.ProjectID, actor); err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, errs.InvalidInput("invalid task status")
		}
		set["status"] = *update.Status
	}
	if update.AssignedTo != nil {
		set["assignedTo"] = *update.AssignedTo
	}
	if update.DeadlineDays != nil {
		set["deadlineDays"] = *update.DeadlineDays
	}
	if len(set) == 0 {
		return &task, nil
	}

	result, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, errs.NotFound("task not found")
	}

	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}

	s.Activity.Record(task.ProjectID.Hex(), repositories.ActivityTaskUpdated, fmt.Sprintf("task %s updated", taskID.Hex()))
	return &task, nil
}

// DeleteTask trajno briše task; taskovi nemaju podređene zapise.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID, actor models.Actor) error {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return errs.NotFound("task not found")
		}
		return err
	}

	if _, err := s.loadProjectForTaskWrite(ctx, task.ProjectID, actor); err != nil {
		return err
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted from project %s", taskID.Hex(), task.ProjectID.Hex())
	s.Activity.Record(task.ProjectID.Hex(), repositories.ActivityTaskDeleted, fmt.Sprintf("task %s deleted", taskID.Hex()))
	return nil
}

// GetForProject vraća taskove projekta; vidljivi su dodeljenom mentoru/profesoru.
func (s *TaskService) GetForProject(ctx context.Context, projectID primitive.ObjectID, actor models.Actor) ([]models.TaskWithAssignee, error) {
	if _, err := s.loadProjectForTaskWrite(ctx, projectID, actor); err != nil {
		return nil, err
	}

	cursor, err := s.TasksCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	result := []models.TaskWithAssignee{}
	for _, task := range tasks {
		entry := models.TaskWithAssignee{Task: task}
		if task.AssignedTo != nil {
			var student models.StudentProfile
			if err := s.StudentsCollection.FindOne(ctx, bson.M{"_id": *task.AssignedTo}).Decode(&student); err == nil {
				entry.AssigneeName = student.Name
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// FormatProgress formatira odnos završenih i ukupnih taskova kao procenat sa
// dve decimale. Projekat bez taskova ima napredak "0.00%".
func FormatProgress(completed, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(completed)/float64(total)*100)
}

// TrackProgress računa napredak projekta po broju završenih taskova.
// Napredak je javno čitljiv, bez autentifikacije.
func (s *TaskService) TrackProgress(ctx context.Context, projectID primitive.ObjectID) (string, error) {
	count, err := s.ProjectsCollection.CountDocuments(ctx, bson.M{"_id": projectID})
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", errs.NotFound("project not found")
	}

	total, err := s.TasksCollection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return "", err
	}
	completed, err := s.TasksCollection.CountDocuments(ctx, bson.M{"projectId": projectID, "status": models.TaskCompleted})
	if err != nil {
		return "", err
	}

	return FormatProgress(int(completed), int(total)), nil
}
