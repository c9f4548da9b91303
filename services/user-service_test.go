package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"collabnest/backend/errs"
	"collabnest/backend/models"
)

func TestCheckVerificationCode(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		code    string
		wantErr bool
	}{
		{
			name:    "valid code before expiry",
			user:    models.User{VerificationCode: "123456", VerificationExpiry: time.Now().Add(time.Hour)},
			code:    "123456",
			wantErr: false,
		},
		{
			name:    "already verified account",
			user:    models.User{IsActive: true},
			code:    "123456",
			wantErr: true,
		},
		{
			name:    "wrong code",
			user:    models.User{VerificationCode: "123456", VerificationExpiry: time.Now().Add(time.Hour)},
			code:    "654321",
			wantErr: true,
		},
		{
			name:    "empty code never matches",
			user:    models.User{VerificationCode: "", VerificationExpiry: time.Now().Add(time.Hour)},
			code:    "",
			wantErr: true,
		},
		{
			name:    "expired code",
			user:    models.User{VerificationCode: "123456", VerificationExpiry: time.Now().Add(-time.Minute)},
			code:    "123456",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkVerificationCode(&tt.user, tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkVerificationCode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errs.ErrInvalidInput) {
				t.Errorf("checkVerificationCode() error = %v, want invalid input", err)
			}
		})
	}
}

func newUserServiceForMock(mt *mtest.T) *UserService {
	db := mt.Client.Database("collabnest")
	return &UserService{
		Client:                  mt.Client,
		UsersCollection:         db.Collection("users"),
		StudentsCollection:      db.Collection("students"),
		MentorsCollection:       db.Collection("mentors"),
		ProfessorsCollection:    db.Collection("professors"),
		AdminsCollection:        db.Collection("admins"),
		NotificationsCollection: db.Collection("notifications"),
	}
}

func userDoc(userID primitive.ObjectID, email, passwordHash string, active bool, extra ...bson.E) bson.D {
	doc := bson.D{
		{Key: "_id", Value: userID},
		{Key: "email", Value: email},
		{Key: "password", Value: passwordHash},
		{Key: "role", Value: "STUDENT"},
		{Key: "isActive", Value: active},
	}
	return append(doc, extra...)
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("correct password but inactive account", func(mt *mtest.T) {
		service := newUserServiceForMock(mt)

		hash, err := bcrypt.GenerateFromPassword([]byte("Lozinka1!"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.users", mtest.FirstBatch,
				userDoc(primitive.NewObjectID(), "mika@uni.rs", string(hash), false)),
		)

		_, err = service.Login(context.Background(), "mika@uni.rs", "Lozinka1!")
		if !errors.Is(err, errs.ErrUnauthenticated) {
			t.Fatalf("Login with an unverified account = %v, want unauthenticated", err)
		}
	})
}

func TestVerifyUserActivatesAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matching code activates the account", func(mt *mtest.T) {
		service := newUserServiceForMock(mt)
		userID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.users", mtest.FirstBatch,
				userDoc(userID, "mika@uni.rs", "hash", false,
					bson.E{Key: "verificationCode", Value: "123456"},
					bson.E{Key: "verificationExpiry", Value: time.Now().Add(time.Hour)})),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		if err := service.VerifyUser(context.Background(), "mika@uni.rs", "123456"); err != nil {
			t.Fatalf("VerifyUser returned error: %v", err)
		}
	})

	mt.Run("wrong code leaves the account inactive", func(mt *mtest.T) {
		service := newUserServiceForMock(mt)
		userID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.users", mtest.FirstBatch,
				userDoc(userID, "mika@uni.rs", "hash", false,
					bson.E{Key: "verificationCode", Value: "123456"},
					bson.E{Key: "verificationExpiry", Value: time.Now().Add(time.Hour)})),
		)

		err := service.VerifyUser(context.Background(), "mika@uni.rs", "000000")
		if !errors.Is(err, errs.ErrInvalidInput) {
			t.Fatalf("VerifyUser with the wrong code = %v, want invalid input", err)
		}
	})

	mt.Run("unknown email is not found", func(mt *mtest.T) {
		service := newUserServiceForMock(mt)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "collabnest.users", mtest.FirstBatch),
		)

		err := service.VerifyUser(context.Background(), "niko@uni.rs", "123456")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("VerifyUser for an unknown email = %v, want not found", err)
		}
	})
}
