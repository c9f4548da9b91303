package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"collabnest/backend/errs"
	"collabnest/backend/models"
	"collabnest/backend/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetNotifications vraća notifikacije korisnika, najnovije prve. Korisnik
// vidi samo svoje; admin sme i tuđe.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	userID, err := parseObjectID(mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !services.CanReadNotifications(actor, userID) {
		writeError(w, errs.Forbidden("cannot read another user's notifications"))
		return
	}

	notifications, err := h.service.GetForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	formatted := make([]map[string]interface{}, 0, len(notifications))
	for _, notification := range notifications {
		formatted = append(formatted, map[string]interface{}{
			"id":      notification.ID,
			"message": notification.Message,
			"time":    timeAgo(notification.CreatedAt),
			"read":    notification.Status == models.NotificationRead,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": formatted,
	})
}

// MarkAllNotificationsRead označava sve notifikacije korisnika kao pročitane.
func (h *NotificationHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	userID, err := parseObjectID(mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !services.CanReadNotifications(actor, userID) {
		writeError(w, errs.Forbidden("cannot modify another user's notifications"))
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All notifications marked as read",
	})
}

// timeAgo formatira starost notifikacije za prikaz.
func timeAgo(timestamp time.Time) string {
	diff := int(time.Since(timestamp).Seconds())

	switch {
	case diff < 60:
		return fmt.Sprintf("%d seconds ago", diff)
	case diff < 3600:
		return fmt.Sprintf("%d minutes ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%d hours ago", diff/3600)
	case diff < 7*86400:
		return fmt.Sprintf("%d days ago", diff/86400)
	}
	return timestamp.Format("02.01.2006")
}
