package listeners

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"idm_backend/internal/events"
	"idm_backend/internal/models"
	"idm_backend/internal/repositories"
)

// AuditListener appends a log row for every dispatched event.
type AuditListener struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditListener(auditRepo repositories.AuditLogRepository) *AuditListener {
	return &AuditListener{auditRepo: auditRepo}
}

func (l *AuditListener) Handle(ctx context.Context, ev events.Event) error {
	details, err := json.Marshal(auditDetails(ev))
	if err != nil {
		return err
	}

	return l.auditRepo.Append(&models.AuditLog{
		Event:   ev.Name(),
		ActorID: ev.Actor(),
		Details: datatypes.JSON(details),
	})
}

// auditDetails extracts what is safe to persist per event. Tokens and
// password material never land in the log.
func auditDetails(ev events.Event) map[string]interface{} {
	switch e := ev.(type) {
	case events.UserCreated:
		return map[string]interface{}{"email": e.User.Email}
	case events.UserUpdated:
		return map[string]interface{}{"changed": changedKeys(e.Changed)}
	case events.VerificationRequested:
		return map[string]interface{}{"email": e.Email}
	case events.EmailVerified:
		return map[string]interface{}{"old_email": e.OldEmail, "new_email": e.NewEmail}
	case events.PasswordResetRequested:
		return map[string]interface{}{"email": e.User.Email}
	case events.PasswordReset:
		return map[string]interface{}{}
	case events.RoleCreated:
		return map[string]interface{}{"name": e.Role.Name}
	case events.RoleUpdated:
		return map[string]interface{}{"name": e.Role.Name, "changed": changedKeys(e.Changed)}
	case events.PermissionCreated:
		return map[string]interface{}{"name": e.Permission.Name}
	case events.ClientCreated:
		return map[string]interface{}{"name": e.Client.Name}
	}
	return map[string]interface{}{}
}

func changedKeys(changed map[string]interface{}) []string {
	keys := make([]string, 0, len(changed))
	for k := range changed {
		keys = append(keys, k)
	}
	return keys
}
