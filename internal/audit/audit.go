package audit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesa/orgdesa/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogAction records an audit log entry
func LogAction(db *gorm.DB, userID uuid.UUID, action, resource string, details map[string]interface{}) error {
	log := models.AuditLog{
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Details:   datatypes.JSONMap(details),
		Timestamp: time.Now().UTC(),
	}

	if err := db.Create(&log).Error; err != nil {
		slog.Warn("Failed to write audit log", "action", action, "resource", resource, "error", err)
		return err
	}
	return nil
}

// Resource formats a "kind:id" resource reference.
func Resource(kind string, id interface{}) string {
	return fmt.Sprintf("%s:%v", kind, id)
}

// Audit actions constants
const (
	ActionCreateUser                = "create_user"
	ActionUpdateUser                = "update_user"
	ActionLogin                     = "login"
	ActionLoginFailed               = "login_failed"
	ActionCreateActivity            = "create_activity"
	ActionUpdateActivity            = "update_activity"
	ActionDeleteActivity            = "delete_activity"
	ActionAttachActivityDocument    = "attach_activity_document"
	ActionDeleteActivityDocument    = "delete_activity_document"
	ActionCreateMeetingMinute       = "create_meeting_minute"
	ActionUpdateMeetingMinute       = "update_meeting_minute"
	ActionDeleteMeetingMinute       = "delete_meeting_minute"
	ActionCreateDocument            = "create_document"
	ActionUpdateDocument            = "update_document"
	ActionDeleteDocument            = "delete_document"
	ActionUpdateOrganizationProfile = "update_organization_profile"
)
