package models

import "time"

type ShoppingList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	// Permission is the caller's access level: "owner", "edit" or "view".
	Permission string `json:"permission,omitempty"`
}

type ShoppingItem struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Checked   bool      `json:"checked"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Emoji     string    `json:"emoji"`
}

type NewItemRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Category string `json:"category" binding:"max=50"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

type UpdateItemRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}
