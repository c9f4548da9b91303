package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleMentor    Role = "MENTOR"
	RoleProfessor Role = "PROFESSOR"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password" json:"-"`
	Role               Role               `bson:"role" json:"role"`
	IsActive           bool               `bson:"isActive" json:"isActive"`
	VerificationCode   string             `bson:"verificationCode,omitempty" json:"-"`
	VerificationExpiry time.Time          `bson:"verificationExpiry,omitempty" json:"-"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// StudentProfile i MentorProfile dele ista polja, ali su odvojene kolekcije
// jer jedan korisnik sme da ima tacno jedan profil koji odgovara njegovoj roli.
type StudentProfile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills     []string           `bson:"skills" json:"skills"`
	Experience string             `bson:"experience,omitempty" json:"experience,omitempty"`
	Branch     string             `bson:"branch" json:"branch"`
	Year       int                `bson:"year" json:"year"`
}

type MentorProfile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills     []string           `bson:"skills" json:"skills"`
	Experience string             `bson:"experience,omitempty" json:"experience,omitempty"`
	Branch     string             `bson:"branch" json:"branch"`
	Year       int                `bson:"year" json:"year"`
}

type ProfessorProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Name            string             `bson:"name" json:"name"`
	Department      string             `bson:"department" json:"department"`
	ResearchField   string             `bson:"researchField" json:"researchField"`
	PapersPublished []string           `bson:"papersPublished" json:"papersPublished"`
}

type AdminProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Permissions []string           `bson:"permissions" json:"permissions"`
}

// Actor je autentifikovani identitet koji izvrsava operaciju. Profile ID
// polja su popunjena samo za rolu koja odgovara korisniku.
type Actor struct {
	UserID      primitive.ObjectID  `json:"userId"`
	Role        Role                `json:"role"`
	StudentID   *primitive.ObjectID `json:"studentId,omitempty"`
	MentorID    *primitive.ObjectID `json:"mentorId,omitempty"`
	ProfessorID *primitive.ObjectID `json:"professorId,omitempty"`
}
