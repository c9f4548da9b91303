package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"

	"collabnest/backend/errs"
	"collabnest/backend/logging"
	"collabnest/backend/models"
	"collabnest/backend/utils"
)

type UserService struct {
	Client                  *mongo.Client
	UsersCollection         *mongo.Collection
	StudentsCollection      *mongo.Collection
	MentorsCollection       *mongo.Collection
	ProfessorsCollection    *mongo.Collection
	AdminsCollection        *mongo.Collection
	NotificationsCollection *mongo.Collection

	// Email šalje verifikacione kodove. Kada SMTP nije podešen, nalozi se
	// aktiviraju odmah jer kod ne bi imao kako da stigne do korisnika.
	Email *utils.EmailSender
}

// ProfileData nosi polja za kreiranje profila uz registraciju.
type ProfileData struct {
	Name            string   `json:"name"`
	Bio             string   `json:"bio,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Experience      string   `json:"experience,omitempty"`
	Branch          string   `json:"branch,omitempty"`
	Year            int      `json:"year,omitempty"`
	Department      string   `json:"department,omitempty"`
	ResearchField   string   `json:"researchField,omitempty"`
	PapersPublished []string `json:"papersPublished,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
}

// validateProfileData proverava obavezna polja profila po roli.
func validateProfileData(role models.Role, profile ProfileData) error {
	if profile.Name == "" {
		return errs.InvalidInput("profile field 'name' is required")
	}
	switch role {
	case models.RoleStudent, models.RoleMentor:
		if profile.Branch == "" {
			return errs.InvalidInput("profile field 'branch' is required for %s role", role)
		}
		if profile.Year == 0 {
			return errs.InvalidInput("profile field 'year' is required for %s role", role)
		}
	case models.RoleProfessor:
		if profile.Department == "" {
			return errs.InvalidInput("profile field 'department' is required for PROFESSOR role")
		}
		if profile.ResearchField == "" {
			return errs.InvalidInput("profile field 'researchField' is required for PROFESSOR role")
		}
	}
	return nil
}

// Register kreira korisnika i profil koji odgovara njegovoj roli u jednoj
// transakciji, pa vraća aktera za izdavanje tokena. Rola i tip profila
// uvek ostaju usaglašeni. Kada je SMTP podešen, nalog nastaje neaktivan i
// korisniku se šalje verifikacioni kod; drugi rezultat javlja da li se
// verifikacija čeka.
func (s *UserService) Register(ctx context.Context, email, password string, role models.Role, profile ProfileData) (*models.Actor, bool, error) {
	if email == "" || password == "" {
		return nil, false, errs.InvalidInput("email and password are required")
	}
	if !role.Valid() {
		return nil, false, errs.InvalidInput("invalid role: must be STUDENT, MENTOR, PROFESSOR, or ADMIN")
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, false, err
	}
	if err := validateProfileData(role, profile); err != nil {
		return nil, false, err
	}

	var existing models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		return nil, false, errs.Conflict("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %v", err)
	}

	// Sanitizacija unosa
	profile.Name = html.EscapeString(profile.Name)
	profile.Bio = html.EscapeString(profile.Bio)

	requireVerification := s.Email != nil && s.Email.Configured()

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     html.EscapeString(email),
		Password:  string(hashedPassword),
		Role:      role,
		IsActive:  !requireVerification,
		CreatedAt: time.Now(),
	}
	if requireVerification {
		user.VerificationCode = fmt.Sprintf("%06d", rand.Intn(1000000))
		user.VerificationExpiry = time.Now().Add(24 * time.Hour)
	}

	actor := &models.Actor{UserID: user.ID, Role: role}
	profileID := primitive.NewObjectID()

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, false, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.UsersCollection.InsertOne(sc, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, errs.Conflict("user with this email already exists")
			}
			return nil, err
		}

		if err := s.insertProfile(sc, role, user.ID, profileID, profile); err != nil {
			return nil, err
		}
		switch role {
		case models.RoleStudent:
			actor.StudentID = &profileID
		case models.RoleMentor:
			actor.MentorID = &profileID
		case models.RoleProfessor:
			actor.ProfessorID = &profileID
		}
		return nil, nil
	})
	if err != nil {
		return nil, false, err
	}

	if requireVerification {
		body := fmt.Sprintf("Your CollabNest verification code is %s. It expires in 24 hours.", user.VerificationCode)
		if err := s.Email.Send(user.Email, "Verify your CollabNest account", body); err != nil {
			logging.Logger.Warnf("Event ID: VERIFICATION_EMAIL_FAILED, Description: Could not send verification code to %s: %v", user.Email, err)
		}
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s, verification pending: %t", user.ID.Hex(), role, requireVerification)
	return actor, requireVerification, nil
}

// checkVerificationCode proverava kod naspram sačuvanog i roka važenja.
func checkVerificationCode(user *models.User, code string) error {
	if user.IsActive {
		return errs.InvalidInput("account is already verified")
	}
	if code == "" || user.VerificationCode == "" || code != user.VerificationCode {
		return errs.InvalidInput("invalid verification code")
	}
	if time.Now().After(user.VerificationExpiry) {
		return errs.InvalidInput("verification code has expired")
	}
	return nil
}

// VerifyUser aktivira nalog ako se kod poklapa i nije istekao.
func (s *UserService) VerifyUser(ctx context.Context, email, code string) error {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return errs.NotFound("user not found")
		}
		return err
	}

	if err := checkVerificationCode(&user, code); err != nil {
		return err
	}

	_, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"isActive": true},
			"$unset": bson.M{"verificationCode": "", "verificationExpiry": ""},
		},
	)
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: USER_VERIFIED, Description: User %s verified their account", user.ID.Hex())
	return nil
}

func notNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// insertProfile upisuje profil koji odgovara roli, u okviru tekuće sesije.
func (s *UserService) insertProfile(sc mongo.SessionContext, role models.Role, userID, profileID primitive.ObjectID, profile ProfileData) error {
	switch role {
	case models.RoleStudent:
		_, err := s.StudentsCollection.InsertOne(sc, models.StudentProfile{
			ID: profileID, UserID: userID, Name: profile.Name, Bio: profile.Bio,
			Skills: notNil(profile.Skills), Experience: profile.Experience,
			Branch: profile.Branch, Year: profile.Year,
		})
		return err
	case models.RoleMentor:
		_, err := s.MentorsCollection.InsertOne(sc, models.MentorProfile{
			ID: profileID, UserID: userID, Name: profile.Name, Bio: profile.Bio,
			Skills: notNil(profile.Skills), Experience: profile.Experience,
			Branch: profile.Branch, Year: profile.Year,
		})
		return err
	case models.RoleProfessor:
		_, err := s.ProfessorsCollection.InsertOne(sc, models.ProfessorProfile{
			ID: profileID, UserID: userID, Name: profile.Name,
			Department: profile.Department, ResearchField: profile.ResearchField,
			PapersPublished: notNil(profile.PapersPublished),
		})
		return err
	case models.RoleAdmin:
		_, err := s.AdminsCollection.InsertOne(sc, models.AdminProfile{
			ID: profileID, UserID: userID, Name: profile.Name, Bio: profile.Bio,
			Permissions: notNil(profile.Permissions),
		})
		return err
	}
	return nil
}

// profileCollection bira kolekciju profila za datu rolu.
func (s *UserService) profileCollection(role models.Role) *mongo.Collection {
	switch role {
	case models.RoleStudent:
		return s.StudentsCollection
	case models.RoleMentor:
		return s.MentorsCollection
	case models.RoleProfessor:
		return s.ProfessorsCollection
	case models.RoleAdmin:
		return s.AdminsCollection
	}
	return nil
}

// Login proverava kredencijale i vraća aktera sa profile ID-jevima.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Actor, error) {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, errs.Unauthenticated("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.Unauthenticated("invalid email or password")
	}
	if !user.IsActive {
		return nil, errs.Unauthenticated("account is not verified")
	}
	return s.BuildActor(ctx, &user)
}

// BuildActor dopunjava aktera profile ID-jem koji odgovara roli korisnika.
func (s *UserService) BuildActor(ctx context.Context, user *models.User) (*models.Actor, error) {
	actor := &models.Actor{UserID: user.ID, Role: user.Role}
	switch user.Role {
	case models.RoleStudent:
		var profile models.StudentProfile
		if err := s.StudentsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			actor.StudentID = &profile.ID
		}
	case models.RoleMentor:
		var profile models.MentorProfile
		if err := s.MentorsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			actor.MentorID = &profile.ID
		}
	case models.RoleProfessor:
		var profile models.ProfessorProfile
		if err := s.ProfessorsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			actor.ProfessorID = &profile.ID
		}
	}
	return actor, nil
}

// GetUserByID vraća korisnika sa prikačenim profilom.
func (s *UserService) GetUserByID(ctx context.Context, userID primitive.ObjectID) (map[string]interface{}, error) {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("user not found")
		}
		return nil, err
	}

	result := map[string]interface{}{
		"id":        user.ID,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}

	switch user.Role {
	case models.RoleStudent:
		var profile models.StudentProfile
		if err := s.StudentsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			result["profile"] = profile
		}
	case models.RoleMentor:
		var profile models.MentorProfile
		if err := s.MentorsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			result["profile"] = profile
		}
	case models.RoleProfessor:
		var profile models.ProfessorProfile
		if err := s.ProfessorsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			result["profile"] = profile
		}
	case models.RoleAdmin:
		var profile models.AdminProfile
		if err := s.AdminsCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
			result["profile"] = profile
		}
	}
	return result, nil
}

// GetAllUsers vraća sve korisnike bez lozinki.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.UsersCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// UserUpdate nosi delimičnu izmenu korisnika; nil polja ostaju netaknuta.
type UserUpdate struct {
	Email    *string      `json:"email,omitempty"`
	Password *string      `json:"password,omitempty"`
	Role     *models.Role `json:"role,omitempty"`
	Profile  *ProfileData `json:"profileData,omitempty"`
}

// UpdateUser delimično menja korisnika. Promena role briše stari profil i
// kreira novi za novu rolu u istoj transakciji, tako da rola i tip profila
// uvek ostaju usaglašeni. Dozvoljeno vlasniku naloga ili adminu.
func (s *UserService) UpdateUser(ctx context.Context, userID primitive.ObjectID, update UserUpdate, actor models.Actor) (map[string]interface{}, error) {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("user not found")
		}
		return nil, err
	}

	if !CanUpdateUser(actor, userID) {
		return nil, errs.Forbidden("only the account owner or an admin can update this account")
	}

	newRole := user.Role
	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, errs.InvalidInput("invalid role: must be STUDENT, MENTOR, PROFESSOR, or ADMIN")
		}
		newRole = *update.Role
	}
	roleChanged := newRole != user.Role
	if roleChanged {
		if update.Profile == nil {
			return nil, errs.InvalidInput("profileData is required when changing role")
		}
		if err := validateProfileData(newRole, *update.Profile); err != nil {
			return nil, err
		}
	}

	userSet := bson.M{}
	if update.Email != nil {
		userSet["email"] = html.EscapeString(*update.Email)
	}
	if update.Password != nil {
		if err := utils.ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %v", err)
		}
		userSet["password"] = string(hashedPassword)
	}
	if roleChanged {
		userSet["role"] = newRole
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if len(userSet) > 0 {
			if _, err := s.UsersCollection.UpdateOne(sc, bson.M{"_id": userID}, bson.M{"$set": userSet}); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, errs.Conflict("user with this email already exists")
				}
				return nil, err
			}
		}

		if roleChanged {
			if oldCollection := s.profileCollection(user.Role); oldCollection != nil {
				if _, err := oldCollection.DeleteMany(sc, bson.M{"userId": userID}); err != nil {
					return nil, err
				}
			}
			profile := *update.Profile
			profile.Name = html.EscapeString(profile.Name)
			profile.Bio = html.EscapeString(profile.Bio)
			if err := s.insertProfile(sc, newRole, userID, primitive.NewObjectID(), profile); err != nil {
				return nil, err
			}
		} else if update.Profile != nil {
			profSet := bson.M{}
			if update.Profile.Name != "" {
				profSet["name"] = html.EscapeString(update.Profile.Name)
			}
			if update.Profile.Bio != "" {
				profSet["bio"] = html.EscapeString(update.Profile.Bio)
			}
			if update.Profile.Skills != nil {
				profSet["skills"] = update.Profile.Skills
			}
			if update.Profile.Experience != "" {
				profSet["experience"] = update.Profile.Experience
			}
			if update.Profile.Branch != "" {
				profSet["branch"] = update.Profile.Branch
			}
			if update.Profile.Year != 0 {
				profSet["year"] = update.Profile.Year
			}
			if update.Profile.Department != "" {
				profSet["department"] = update.Profile.Department
			}
			if update.Profile.ResearchField != "" {
				profSet["researchField"] = update.Profile.ResearchField
			}
			if update.Profile.PapersPublished != nil {
				profSet["papersPublished"] = update.Profile.PapersPublished
			}
			if update.Profile.Permissions != nil {
				profSet["permissions"] = update.Profile.Permissions
			}
			if len(profSet) > 0 {
				if collection := s.profileCollection(user.Role); collection != nil {
					if _, err := collection.UpdateOne(sc, bson.M{"userId": userID}, bson.M{"$set": profSet}); err != nil {
						return nil, err
					}
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_UPDATED, Description: User %s updated, role change: %t", userID.Hex(), roleChanged)
	return s.GetUserByID(ctx, userID)
}

// DeleteUser briše korisnika, njegov profil i notifikacije u jednoj
// transakciji. Dozvoljeno vlasniku naloga ili adminu.
func (s *UserService) DeleteUser(ctx context.Context, userID primitive.ObjectID, actor models.Actor) error {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return errs.NotFound("user not found")
		}
		return err
	}

	if !CanDeleteUser(actor, userID) {
		return errs.Forbidden("only the account owner or an admin can delete this account")
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if profileCollection := s.profileCollection(user.Role); profileCollection != nil {
			if _, err := profileCollection.DeleteMany(sc, bson.M{"userId": userID}); err != nil {
				return nil, err
			}
		}
		if _, err := s.NotificationsCollection.DeleteMany(sc, bson.M{"userId": userID}); err != nil {
			return nil, err
		}
		if _, err := s.UsersCollection.DeleteOne(sc, bson.M{"_id": userID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: USER_DELETED, Description: User %s deleted with profile and notifications", userID.Hex())
	return nil
}
