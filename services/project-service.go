package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabnest/backend/errs"
	"collabnest/backend/logging"
	"collabnest/backend/models"
	"collabnest/backend/repositories"
)

type ProjectService struct {
	Client                 *mongo.Client
	ProjectsCollection     *mongo.Collection
	TasksCollection        *mongo.Collection
	ApplicationsCollection *mongo.Collection
	MeetingsCollection     *mongo.Collection
	MentorsCollection      *mongo.Collection
	ProfessorsCollection   *mongo.Collection
	StudentsCollection     *mongo.Collection
	Activity               *repositories.ActivityRepo
}

// ProjectInput nosi polja za kreiranje i izmenu projekta.
type ProjectInput struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Field       *string               `json:"field,omitempty"`
	TechStack   []string              `json:"techStack,omitempty"`
	Duration    *string               `json:"duration,omitempty"`
	Perks       *string               `json:"perks,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	ProfessorID *primitive.ObjectID   `json:"professorId,omitempty"`
}

// CreateProject kreira projekat u statusu OPEN. Profil kreatora ulazi u
// odgovarajući supervizorski slot; mentor može navesti i profesora.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput, actor models.Actor) (*models.Project, error) {
	if input.Title == nil || *input.Title == "" {
		return nil, errs.InvalidInput("project title is required")
	}
	if actor.Role != models.RoleMentor && actor.Role != models.RoleProfessor {
		return nil, errs.Forbidden("only mentors and professors can create projects")
	}

	project := models.Project{
		ID:         primitive.NewObjectID(),
		Title:      *input.Title,
		Status:     models.ProjectOpen,
		TechStack:  input.TechStack,
		StudentIDs: []primitive.ObjectID{},
		CreatedAt:  time.Now(),
	}
	if project.TechStack == nil {
		project.TechStack = []string{}
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Field != nil {
		project.Field = *input.Field
	}
	if input.Duration != nil {
		project.Duration = *input.Duration
	}
	if input.Perks != nil {
		project.Perks = *input.Perks
	}

	switch actor.Role {
	case models.RoleMentor:
		if actor.MentorID == nil {
			return nil, errs.Forbidden("mentor profile is required to create a project")
		}
		project.MentorID = actor.MentorID
		project.ProfessorID = input.ProfessorID
	case models.RoleProfessor:
		if actor.ProfessorID == nil {
			return nil, errs.Forbidden("professor profile is required to create a project")
		}
		project.ProfessorID = actor.ProfessorID
	}

	if _, err := s.ProjectsCollection.InsertOne(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s (%q) created", project.ID.Hex(), project.Title)
	s.Activity.Record(project.ID.Hex(), repositories.ActivityProjectCreated, fmt.Sprintf("project %q created", project.Title))
	return &project, nil
}

// GetProjects vraća projekte filtrirane po veštinama i oblasti, sa
// paginacijom. Listing je javan.
func (s *ProjectService) GetProjects(ctx context.Context, skills, fields []string, page, limit int) ([]models.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	var conditions []bson.M
	if len(skills) > 0 {
		conditions = append(conditions, bson.M{"techStack": bson.M{"$in": skills}})
	}
	if len(fields) > 0 {
		var fieldConds []bson.M
		for _, field := range fields {
			fieldConds = append(fieldConds, bson.M{"field": bson.M{"$regex": field, "$options": "i"}})
		}
		conditions = append(conditions, bson.M{"$or": fieldConds})
	}
	if len(conditions) > 0 {
		filter["$and"] = conditions
	}

	total, err := s.ProjectsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})
	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("unsuccessful procurement of projects: %v", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, fmt.Errorf("unsuccessful decoding of projects: %v", err)
	}
	return projects, total, nil
}

// GetProjectByID vraća projekat; čitanje je javno.
func (s *ProjectService) GetProjectByID(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}
	return &project, nil
}

// GetProjectDetail vraca projekat sa supervizorima, upisanim studentima,
// prijavama, taskovima i sastancima. Javno citljivo.
func (s *ProjectService) GetProjectDetail(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectDetail, error) {
	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	detail := &models.ProjectDetail{
		Project:      *project,
		Students:     []models.StudentProfile{},
		Applications: []models.Application{},
		Tasks:        []models.Task{},
		Meetings:     []models.Meeting{},
	}

	if project.MentorID != nil {
		var mentor models.MentorProfile
		if err := s.MentorsCollection.FindOne(ctx, bson.M{"_id": *project.MentorID}).Decode(&mentor); err == nil {
			detail.Mentor = &mentor
		}
	}
	if project.ProfessorID != nil {
		var professor models.ProfessorProfile
		if err := s.ProfessorsCollection.FindOne(ctx, bson.M{"_id": *project.ProfessorID}).Decode(&professor); err == nil {
			detail.Professor = &professor
		}
	}

	if len(project.StudentIDs) > 0 {
		cursor, err := s.StudentsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": project.StudentIDs}})
		if err != nil {
			return nil, err
		}
		if err := cursor.All(ctx, &detail.Students); err != nil {
			return nil, err
		}
	}

	cursor, err := s.ApplicationsCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &detail.Applications); err != nil {
		return nil, err
	}

	cursor, err = s.TasksCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &detail.Tasks); err != nil {
		return nil, err
	}

	cursor, err = s.MeetingsCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &detail.Meetings); err != nil {
		return nil, err
	}

	return detail, nil
}

// UpdateProject delimično menja projekat; dozvoljeno samo dodeljenom
// mentoru/profesoru. Supervizor sme i slobodno da prepiše status.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID primitive.ObjectID, input ProjectInput, actor models.Actor) (*models.Project, error) {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}

	if !IsProjectSupervisor(actor, &project) {
		return nil, errs.Forbidden("only the assigned mentor or professor can update this project")
	}

	set := bson.M{}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Field != nil {
		set["field"] = *input.Field
	}
	if input.TechStack != nil {
		set["techStack"] = input.TechStack
	}
	if input.Duration != nil {
		set["duration"] = *input.Duration
	}
	if input.Perks != nil {
		set["perks"] = *input.Perks
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, errs.InvalidInput("invalid project status")
		}
		set["status"] = *input.Status
	}
	if len(set) == 0 {
		return &project, nil
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}

	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated project: %v", err)
	}
	return &project, nil
}

// DeleteProject briše projekat zajedno sa svim taskovima, prijavama i
// sastancima u jednoj transakciji — ili sve ili ništa.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID primitive.ObjectID, actor models.Actor) error {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return errs.NotFound("project not found")
		}
		return err
	}

	if !IsProjectSupervisor(actor, &project) {
		return errs.Forbidden("only the assigned mentor or professor can delete this project")
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.TasksCollection.DeleteMany(sc, bson.M{"projectId": projectID}); err != nil {
			return nil, err
		}
		if _, err := s.ApplicationsCollection.DeleteMany(sc, bson.M{"projectId": projectID}); err != nil {
			return nil, err
		}
		if _, err := s.MeetingsCollection.DeleteMany(sc, bson.M{"projectId": projectID}); err != nil {
			return nil, err
		}
		if _, err := s.ProjectsCollection.DeleteOne(sc, bson.M{"_id": projectID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted with all tasks, applications and meetings", projectID.Hex())
	s.Activity.Record(projectID.Hex(), repositories.ActivityProjectDeleted, fmt.Sprintf("project %q deleted", project.Title))
	return nil
}

// GetPendingProjects vraća projekte koji čekaju odluku admina (status OPEN).
func (s *ProjectService) GetPendingProjects(ctx context.Context, page, limit int) ([]models.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{"status": models.ProjectOpen}
	total, err := s.ProjectsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// UpdateApproval sprovodi odluku admina: odobren projekat prelazi u
// IN_PROGRESS, odbijen u CLOSED.
func (s *ProjectService) UpdateApproval(ctx context.Context, projectID primitive.ObjectID, approved bool, actor models.Actor) (*models.Project, error) {
	if !CanApproveProjects(actor) {
		return nil, errs.Forbidden("only admins can approve or reject projects")
	}

	newStatus := models.ProjectInProgress
	activityType := repositories.ActivityProjectApproved
	if !approved {
		newStatus = models.ProjectClosed
		activityType = repositories.ActivityProjectRejected
	}

	result, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"status": newStatus}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project status: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, errs.NotFound("project not found")
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return nil, err
	}

	s.Activity.Record(projectID.Hex(), activityType, fmt.Sprintf("admin decision: approved=%t", approved))
	return &project, nil
}

// GetProjectsForStudent vraća projekte na koje je student upisan.
func (s *ProjectService) GetProjectsForStudent(ctx context.Context, actor models.Actor) ([]models.Project, error) {
	if actor.Role != models.RoleStudent || actor.StudentID == nil {
		return nil, errs.Forbidden("student role is required")
	}

	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"studentIds": *actor.StudentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectsForMentor vraća projekte koje mentor vodi.
func (s *ProjectService) GetProjectsForMentor(ctx context.Context, actor models.Actor) ([]models.Project, error) {
	if actor.Role != models.RoleMentor || actor.MentorID == nil {
		return nil, errs.Forbidden("mentor role is required")
	}

	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"mentorId": *actor.MentorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
