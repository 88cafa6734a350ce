package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserStatus(t *testing.T) {
	tests := []struct {
		status UserStatus
		valid  bool
		banned bool
	}{
		{StatusActive, true, false},
		{StatusInactive, true, false},
		{StatusBanned, true, true},
		{UserStatus("deleted"), false, false},
		{UserStatus(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.banned, tt.status.IsBanned())
		})
	}
}
