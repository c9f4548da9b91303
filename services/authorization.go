package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabnest/backend/models"
)

// IsProjectSupervisor odlučuje da li je akter dodeljeni mentor ili profesor
// projekta. Poređenje ide isključivo preko profile ID-jeva, nikad preko
// user ID-ja, i traži da je odgovarajuće polje projekta popunjeno.
func IsProjectSupervisor(actor models.Actor, project *models.Project) bool {
	if project == nil {
		return false
	}
	if project.MentorID != nil && actor.MentorID != nil && *project.MentorID == *actor.MentorID {
		return true
	}
	if project.ProfessorID != nil && actor.ProfessorID != nil && *project.ProfessorID == *actor.ProfessorID {
		return true
	}
	return false
}

// CanApproveProjects - samo admin odobrava ili odbija projekte.
func CanApproveProjects(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}

// CanDeleteUser dozvoljava brisanje naloga vlasniku ili adminu.
func CanDeleteUser(actor models.Actor, userID primitive.ObjectID) bool {
	return actor.UserID == userID || actor.Role == models.RoleAdmin
}

// CanUpdateUser dozvoljava izmenu naloga vlasniku ili adminu.
func CanUpdateUser(actor models.Actor, userID primitive.ObjectID) bool {
	return actor.UserID == userID || actor.Role == models.RoleAdmin
}

// CanReadNotifications dozvoljava čitanje tuđih notifikacija samo adminu.
func CanReadNotifications(actor models.Actor, userID primitive.ObjectID) bool {
	return actor.UserID == userID || actor.Role == models.RoleAdmin
}
