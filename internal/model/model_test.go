package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" admin ")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("owner")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleAdmin, RoleViewer, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleMember, RoleAdmin, false},
		{RoleMember, RoleMember, true},
		{RoleViewer, RoleMember, false},
		{Role("GUEST"), RoleViewer, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.min))
		})
	}
}

func TestParseKioskStatus(t *testing.T) {
	s, err := ParseKioskStatus("")
	assert.NoError(t, err)
	assert.Equal(t, KioskActive, s)

	s, err = ParseKioskStatus("maintenance")
	assert.NoError(t, err)
	assert.Equal(t, KioskMaintenance, s)

	_, err = ParseKioskStatus("broken")
	assert.Error(t, err)
}

func TestParseTicketStatus(t *testing.T) {
	s, err := ParseTicketStatus(" in_progress")
	assert.NoError(t, err)
	assert.Equal(t, TicketInProgress, s)

	s, err = ParseTicketStatus("")
	assert.NoError(t, err)
	assert.Equal(t, TicketOpen, s)

	_, err = ParseTicketStatus("IN PROGRESS")
	assert.Error(t, err)

	assert.True(t, TicketResolved.Done())
	assert.True(t, TicketClosed.Done())
	assert.False(t, TicketOpen.Done())
}

func TestParseTicketPriority(t *testing.T) {
	p, err := ParseTicketPriority("Urgent")
	assert.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)
	assert.Equal(t, 4, p.Weight())

	p, err = ParseTicketPriority("")
	assert.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	_, err = ParseTicketPriority("critical")
	assert.Error(t, err)
	assert.Equal(t, 0, TicketPriority("critical").Weight())
}
