package models

import "time"

const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

type ListShare struct {
	ID         string    `json:"id"`
	ListID     string    `json:"list_id"`
	SharedWith string    `json:"shared_with"`
	SharedBy   string    `json:"shared_by"`
	Permission string    `json:"permission"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShareRequest struct {
	// Identifier is the e-mail address or username of the invited user.
	Identifier string `json:"identifier" binding:"required"`
	Permission string `json:"permission" binding:"required,oneof=view edit"`
}

// SharedList is a list shared with the caller, as seen from the invitee side.
type SharedList struct {
	ShoppingList
	SharedBy string `json:"shared_by"`
}
