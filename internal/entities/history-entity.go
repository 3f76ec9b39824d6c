package entities

import (
	"encoding/json"
	"time"
)

type HistoryAction string

const (
	ActionCreated        HistoryAction = "created"
	ActionStatusChanged  HistoryAction = "status_changed"
	ActionSupportAdded   HistoryAction = "support_added"
	ActionSupportUpdated HistoryAction = "support_updated"
	ActionSupportRemoved HistoryAction = "support_removed"
	ActionDocumentAdded  HistoryAction = "document_added"
	ActionDocumentRemove HistoryAction = "document_removed"
	ActionMemberAdded    HistoryAction = "member_added"
	ActionMemberUpdated  HistoryAction = "member_updated"
	ActionMemberRemoved  HistoryAction = "member_removed"
	ActionDataUpdated    HistoryAction = "data_updated"
)

var HistoryActions = []HistoryAction{
	ActionCreated, ActionStatusChanged,
	ActionSupportAdded, ActionSupportUpdated, ActionSupportRemoved,
	ActionDocumentAdded, ActionDocumentRemove,
	ActionMemberAdded, ActionMemberUpdated, ActionMemberRemoved,
	ActionDataUpdated,
}

func (a HistoryAction) IsValid() bool {
	for _, known := range HistoryActions {
		if a == known {
			return true
		}
	}
	return false
}

// HistoryRecord - запись журнала действий по семье. После создания не изменяется.
type HistoryRecord struct {
	ID          uint64          `json:"id" db:"id"`
	FamilyID    uint64          `json:"family_id" db:"family_id"`
	MemberID    *uint64         `json:"member_id" db:"member_id"`
	Action      HistoryAction   `json:"action" db:"action"`
	Description string          `json:"description" db:"description"`
	Details     json.RawMessage `json:"details,omitempty" db:"details"`
	UserID      *uint64         `json:"user_id" db:"user_id"`
	UserName    string          `json:"user_name" db:"user_name"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
