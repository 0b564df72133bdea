package model

import "time"

// Comment is a note left on a ticket. AuthorName is joined from the user for display.
type Comment struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	TicketID    string    `json:"ticket_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
