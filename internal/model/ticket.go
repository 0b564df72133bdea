package model

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus is a kanban column. Declaration order is board order.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketClosed     TicketStatus = "CLOSED"
)

// TicketStatuses lists every status in board column order.
var TicketStatuses = []TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}

// ParseTicketStatus is case-insensitive. An empty value yields TicketOpen.
func ParseTicketStatus(s string) (TicketStatus, error) {
	v := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	if v == "" {
		return TicketOpen, nil
	}
	for _, ts := range TicketStatuses {
		if v == ts {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown ticket status %q", s)
}

// Done reports whether the status ends the ticket's active life.
func (s TicketStatus) Done() bool {
	return s == TicketResolved || s == TicketClosed
}

// TicketPriority ranks how urgently a ticket needs attention.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
	PriorityUrgent TicketPriority = "URGENT"
)

// TicketPriorities lists every priority from lowest to highest.
var TicketPriorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParseTicketPriority is case-insensitive. An empty value yields PriorityMedium.
func ParseTicketPriority(s string) (TicketPriority, error) {
	v := TicketPriority(strings.ToUpper(strings.TrimSpace(s)))
	if v == "" {
		return PriorityMedium, nil
	}
	for _, p := range TicketPriorities {
		if v == p {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown ticket priority %q", s)
}

// Weight is 1 for LOW through 4 for URGENT, 0 if unknown.
func (p TicketPriority) Weight() int {
	for i, v := range TicketPriorities {
		if v == p {
			return i + 1
		}
	}
	return 0
}

// Ticket is a maintenance request against a kiosk.
type Ticket struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	KioskID     string         `json:"kiosk_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	AssigneeID  *string        `json:"assignee_id"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ResolvedAt  *time.Time     `json:"resolved_at"`
}
