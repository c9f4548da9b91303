package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabnest/backend/errs"
	"collabnest/backend/logging"
	"collabnest/backend/models"
	"collabnest/backend/utils"
)

type NotificationService struct {
	NotificationsCollection *mongo.Collection
	UsersCollection         *mongo.Collection
	EmailSender             *utils.EmailSender
}

func NewNotificationService(notificationsCollection, usersCollection *mongo.Collection, emailSender *utils.EmailSender) *NotificationService {
	return &NotificationService{
		NotificationsCollection: notificationsCollection,
		UsersCollection:         usersCollection,
		EmailSender:             emailSender,
	}
}

// Create upisuje notifikaciju za korisnika. Kada se prosledi session context,
// upis ulazi u transakciju pozivaoca.
func (ns *NotificationService) Create(ctx context.Context, userID primitive.ObjectID, message string) error {
	if message == "" {
		return errs.InvalidInput("notification message is required")
	}
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		Status:    models.NotificationUnread,
		CreatedAt: time.Now(),
	}
	if _, err := ns.NotificationsCollection.InsertOne(ctx, notification); err != nil {
		return err
	}
	return nil
}

// SendEmailCopy šalje kopiju notifikacije na email korisnika. Poziva se tek
// posle commit-a i nikad ne propagira grešku — email je best effort.
func (ns *NotificationService) SendEmailCopy(userID primitive.ObjectID, message string) {
	if ns.EmailSender == nil || !ns.EmailSender.Configured() {
		return
	}

	var user models.User
	if err := ns.UsersCollection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_EMAIL_USER_LOOKUP_FAILED, Description: Could not resolve user %s for email copy: %v", userID.Hex(), err)
		return
	}

	if err := ns.EmailSender.Send(user.Email, "New notification on CollabNest", message); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_EMAIL_SEND_FAILED, Description: Email copy to %s failed: %v", user.Email, err)
	}
}

// GetForUser vraća notifikacije korisnika, najnovije prve.
func (ns *NotificationService) GetForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := ns.NotificationsCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAllRead označava sve notifikacije korisnika kao pročitane.
func (ns *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := ns.NotificationsCollection.UpdateMany(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"status": models.NotificationRead}},
	)
	return err
}
