package model

import (
	"fmt"
	"strings"
	"time"
)

// KioskStatus is the operational state of a kiosk.
type KioskStatus string

const (
	KioskActive      KioskStatus = "ACTIVE"
	KioskInactive    KioskStatus = "INACTIVE"
	KioskMaintenance KioskStatus = "MAINTENANCE"
)

// KioskStatuses lists every valid kiosk status.
var KioskStatuses = []KioskStatus{KioskActive, KioskInactive, KioskMaintenance}

// ParseKioskStatus is case-insensitive. An empty value yields KioskActive.
func ParseKioskStatus(s string) (KioskStatus, error) {
	v := KioskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if v == "" {
		return KioskActive, nil
	}
	for _, ks := range KioskStatuses {
		if v == ks {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown kiosk status %q", s)
}

// Kiosk is a physical device tracked for maintenance.
// SerialNumber is unique within a workspace.
type Kiosk struct {
	ID           string      `json:"id"`
	WorkspaceID  string      `json:"workspace_id"`
	SerialNumber string      `json:"serial_number"`
	Name         string      `json:"name"`
	Location     string      `json:"location"`
	Status       KioskStatus `json:"status"`
	Notes        string      `json:"notes"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
