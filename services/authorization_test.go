package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabnest/backend/models"
)

func oidPtr() *primitive.ObjectID {
	id := primitive.NewObjectID()
	return &id
}

func TestIsProjectSupervisor(t *testing.T) {
	mentorID := oidPtr()
	otherMentorID := oidPtr()
	professorID := oidPtr()

	tests := []struct {
		name    string
		actor   models.Actor
		project *models.Project
		want    bool
	}{
		{
			name:    "assigned mentor",
			actor:   models.Actor{Role: models.RoleMentor, MentorID: mentorID},
			project: &models.Project{MentorID: mentorID},
			want:    true,
		},
		{
			name:    "different mentor",
			actor:   models.Actor{Role: models.RoleMentor, MentorID: otherMentorID},
			project: &models.Project{MentorID: mentorID},
			want:    false,
		},
		{
			name:    "assigned professor",
			actor:   models.Actor{Role: models.RoleProfessor, ProfessorID: professorID},
			project: &models.Project{MentorID: mentorID, ProfessorID: professorID},
			want:    true,
		},
		{
			name:    "mentor without profile",
			actor:   models.Actor{Role: models.RoleMentor},
			project: &models.Project{MentorID: mentorID},
			want:    false,
		},
		{
			name:    "project without supervisors",
			actor:   models.Actor{Role: models.RoleMentor, MentorID: mentorID},
			project: &models.Project{},
			want:    false,
		},
		{
			name:    "nil project",
			actor:   models.Actor{Role: models.RoleMentor, MentorID: mentorID},
			project: nil,
			want:    false,
		},
		{
			name:    "admin is not a supervisor",
			actor:   models.Actor{Role: models.RoleAdmin},
			project: &models.Project{MentorID: mentorID},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProjectSupervisor(tt.actor, tt.project); got != tt.want {
				t.Errorf("IsProjectSupervisor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanApproveProjects(t *testing.T) {
	if !CanApproveProjects(models.Actor{Role: models.RoleAdmin}) {
		t.Error("admin should approve projects")
	}
	if CanApproveProjects(models.Actor{Role: models.RoleProfessor}) {
		t.Error("professor should not approve projects")
	}
}

func TestCanDeleteUser(t *testing.T) {
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	if !CanDeleteUser(models.Actor{UserID: ownerID, Role: models.RoleStudent}, ownerID) {
		t.Error("owner should delete own account")
	}
	if CanDeleteUser(models.Actor{UserID: otherID, Role: models.RoleStudent}, ownerID) {
		t.Error("other user should not delete someone else's account")
	}
	if !CanDeleteUser(models.Actor{UserID: otherID, Role: models.RoleAdmin}, ownerID) {
		t.Error("admin should delete any account")
	}
}

func TestCanUpdateUser(t *testing.T) {
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	if !CanUpdateUser(models.Actor{UserID: ownerID, Role: models.RoleStudent}, ownerID) {
		t.Error("owner should update own account")
	}
	if CanUpdateUser(models.Actor{UserID: otherID, Role: models.RoleMentor}, ownerID) {
		t.Error("other user should not update someone else's account")
	}
	if !CanUpdateUser(models.Actor{UserID: otherID, Role: models.RoleAdmin}, ownerID) {
		t.Error("admin should update any account")
	}
}

func TestCanReadNotifications(t *testing.T) {
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	if !CanReadNotifications(models.Actor{UserID: ownerID, Role: models.RoleStudent}, ownerID) {
		t.Error("owner should read own notifications")
	}
	if CanReadNotifications(models.Actor{UserID: otherID, Role: models.RoleMentor}, ownerID) {
		t.Error("mentor should not read someone else's notifications")
	}
	if !CanReadNotifications(models.Actor{UserID: otherID, Role: models.RoleAdmin}, ownerID) {
		t.Error("admin should read any notifications")
	}
}
