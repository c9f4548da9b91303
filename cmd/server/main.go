package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabnest/backend/config"
	"collabnest/backend/handlers"
	"collabnest/backend/logging"
	"collabnest/backend/middleware"
	"collabnest/backend/models"
	"collabnest/backend/repositories"
	"collabnest/backend/services"
	"collabnest/backend/utils"
)

// createIndexes pravi indekse na kojima se oslanja poslovna logika:
// jedinstven email korisnika i parcijalni unique indeks koji sprečava dve
// istovremene neterminalne prijave istog studenta na isti projekat.
func createIndexes(usersCollection, applicationsCollection *mongo.Collection) error {
	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := usersCollection.Indexes().CreateOne(context.TODO(), emailIndex); err != nil {
		return fmt.Errorf("failed to create unique index on user email: %v", err)
	}

	applicationIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "projectId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": bson.A{
					models.ApplicationPending,
					models.ApplicationInterviewScheduled,
				}},
			}),
	}
	if _, err := applicationsCollection.Indexes().CreateOne(context.TODO(), applicationIndex); err != nil {
		return fmt.Errorf("failed to create unique application index: %v", err)
	}

	fmt.Println("Unique indexes created successfully")
	return nil
}

func main() {
	logging.InitLogger()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	utils.SetSecret(cfg.JWTSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Database connection failed:", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}
	fmt.Println("Connected to MongoDB!")

	db := client.Database("collabnest_db")
	usersCollection := db.Collection("users")
	studentsCollection := db.Collection("students")
	mentorsCollection := db.Collection("mentors")
	professorsCollection := db.Collection("professors")
	adminsCollection := db.Collection("admins")
	projectsCollection := db.Collection("projects")
	applicationsCollection := db.Collection("applications")
	tasksCollection := db.Collection("tasks")
	notificationsCollection := db.Collection("notifications")
	meetingsCollection := db.Collection("meetings")
	feedbackCollection := db.Collection("feedback")

	if err := createIndexes(usersCollection, applicationsCollection); err != nil {
		log.Fatal(err)
	}

	activityRepo, err := repositories.NewActivityRepo(cfg.CassandraHost)
	if err != nil {
		log.Fatal("Cassandra connection failed:", err)
	}
	defer activityRepo.CloseSession()

	emailSender := utils.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)

	notificationService := services.NewNotificationService(notificationsCollection, usersCollection, emailSender)
	userService := &services.UserService{
		Client:                  client,
		UsersCollection:         usersCollection,
		StudentsCollection:      studentsCollection,
		MentorsCollection:       mentorsCollection,
		ProfessorsCollection:    professorsCollection,
		AdminsCollection:        adminsCollection,
		NotificationsCollection: notificationsCollection,
		Email:                   emailSender,
	}
	projectService := &services.ProjectService{
		Client:                 client,
		ProjectsCollection:     projectsCollection,
		TasksCollection:        tasksCollection,
		ApplicationsCollection: applicationsCollection,
		MeetingsCollection:     meetingsCollection,
		MentorsCollection:      mentorsCollection,
		ProfessorsCollection:   professorsCollection,
		StudentsCollection:     studentsCollection,
		Activity:               activityRepo,
	}
	applicationService := &services.ApplicationService{
		Client:                     client,
		ApplicationsCollection:     applicationsCollection,
		ProjectsCollection:         projectsCollection,
		StudentsCollection:         studentsCollection,
		UsersCollection:            usersCollection,
		Notifications:              notificationService,
		Activity:                   activityRepo,
		AllowReapplyAfterRejection: cfg.AllowReapplyAfterRejection,
	}
	taskService := &services.TaskService{
		Client:             client,
		TasksCollection:    tasksCollection,
		ProjectsCollection: projectsCollection,
		StudentsCollection: studentsCollection,
		Notifications:      notificationService,
		Activity:           activityRepo,
	}
	meetingService := &services.MeetingService{
		MeetingsCollection: meetingsCollection,
		ProjectsCollection: projectsCollection,
	}
	feedbackService := &services.FeedbackService{
		FeedbackCollection: feedbackCollection,
		UsersCollection:    usersCollection,
	}

	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	adminHandler := handlers.NewAdminHandler(projectService, feedbackService, activityRepo)

	r := mux.NewRouter()

	// protect vezuje JWT middleware i proveru role za jedan handler.
	protect := func(handlerFunc http.HandlerFunc, roles ...models.Role) http.Handler {
		var h http.Handler = handlerFunc
		if len(roles) > 0 {
			h = middleware.RequireRoles(roles...)(h)
		}
		return middleware.JWTAuthMiddleware(h)
	}

	// Public routes
	r.HandleFunc("/api/users/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/api/users/login", userHandler.Login).Methods("POST")
	r.HandleFunc("/api/users/verify", userHandler.VerifyUser).Methods("POST")
	r.HandleFunc("/api/projects", projectHandler.GetProjects).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}", projectHandler.GetProjectByID).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/progress", taskHandler.TrackProjectProgress).Methods("GET")

	// Users
	r.Handle("/api/users", protect(userHandler.GetAllUsers, models.RoleAdmin)).Methods("GET")
	r.Handle("/api/users/{id}", protect(userHandler.GetUserByID)).Methods("GET")
	r.Handle("/api/users/{id}", protect(userHandler.UpdateUser)).Methods("PUT")
	r.Handle("/api/users/{id}", protect(userHandler.DeleteUser)).Methods("DELETE")

	// Projects
	r.Handle("/api/projects", protect(projectHandler.CreateProject, models.RoleMentor, models.RoleProfessor)).Methods("POST")
	r.Handle("/api/projects/{projectId}", protect(projectHandler.UpdateProject, models.RoleMentor, models.RoleProfessor)).Methods("PUT")
	r.Handle("/api/projects/{projectId}", protect(projectHandler.DeleteProject, models.RoleMentor, models.RoleProfessor)).Methods("DELETE")
	r.Handle("/api/student/projects", protect(projectHandler.GetStudentProjects, models.RoleStudent)).Methods("GET")
	r.Handle("/api/mentor/projects", protect(projectHandler.GetMentorProjects, models.RoleMentor)).Methods("GET")

	// Applications
	r.Handle("/api/projects/{projectId}/applications", protect(applicationHandler.ApplyForProject, models.RoleStudent)).Methods("POST")
	r.Handle("/api/projects/{projectId}/applications", protect(applicationHandler.GetProjectApplications, models.RoleMentor, models.RoleProfessor)).Methods("GET")
	r.Handle("/api/applications/{applicationId}", protect(applicationHandler.UpdateApplicationStatus, models.RoleMentor, models.RoleProfessor)).Methods("PUT")

	// Tasks
	r.Handle("/api/projects/{projectId}/tasks", protect(taskHandler.CreateTask, models.RoleMentor, models.RoleProfessor)).Methods("POST")
	r.Handle("/api/projects/{projectId}/tasks", protect(taskHandler.GetProjectTasks, models.RoleMentor, models.RoleProfessor)).Methods("GET")
	r.Handle("/api/tasks/{taskId}/assign", protect(taskHandler.AssignTask, models.RoleMentor, models.RoleProfessor)).Methods("PUT")
	r.Handle("/api/tasks/{taskId}/update", protect(taskHandler.UpdateTask, models.RoleMentor, models.RoleProfessor)).Methods("PUT")
	r.Handle("/api/tasks/{taskId}", protect(taskHandler.DeleteTask, models.RoleMentor, models.RoleProfessor)).Methods("DELETE")

	// Notifications
	r.Handle("/api/notifications/{userId}", protect(notificationHandler.GetNotifications)).Methods("GET")
	r.Handle("/api/notifications/{userId}/read-all", protect(notificationHandler.MarkAllNotificationsRead)).Methods("PUT")

	// Meetings
	r.Handle("/api/meetings/{projectId}", protect(meetingHandler.ScheduleMeeting, models.RoleMentor, models.RoleProfessor)).Methods("POST")
	r.Handle("/api/meetings/{projectId}", protect(meetingHandler.GetProjectMeetings)).Methods("GET")

	// Feedback
	r.Handle("/api/feedback", protect(feedbackHandler.SubmitFeedback)).Methods("POST")

	// Admin
	r.Handle("/api/admins/projects/pending", protect(adminHandler.GetPendingProjects, models.RoleAdmin)).Methods("GET")
	r.Handle("/api/admins/projects/{projectId}/approval", protect(adminHandler.UpdateProjectApproval, models.RoleAdmin)).Methods("PUT")
	r.Handle("/api/admins/feedback", protect(adminHandler.GetFeedback, models.RoleAdmin)).Methods("GET")
	r.Handle("/api/admins/projects/{projectId}/activity", protect(adminHandler.GetProjectActivity, models.RoleAdmin)).Methods("GET")

	corsRouter := enableCORS(r, cfg.CORSOrigin)

	srv := &http.Server{
		Handler:      corsRouter,
		Addr:         cfg.ServerPort,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	fmt.Println("CollabNest backend running on", cfg.ServerPort)
	logging.Logger.Infof("Event ID: SERVER_STARTED, Description: CollabNest backend listening on %s", cfg.ServerPort)
	log.Fatal(srv.ListenAndServe())
}

// enableCORS allows CORS for the frontend application
func enableCORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
