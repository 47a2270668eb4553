package domain

import "testing"

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		action   Action
		callerID string
		ownerID  string
		wantErr  error
	}{
		{"barber registers haircut", RoleBarber, ActionRegisterHaircut, "b1", "c1", nil},
		{"admin registers haircut", RoleAdmin, ActionRegisterHaircut, "a1", "c1", nil},
		{"customer cannot register haircut", RoleCustomer, ActionRegisterHaircut, "c1", "c1", ErrForbidden},
		{"admin views stats", RoleAdmin, ActionViewStats, "a1", "a1", nil},
		{"barber views stats", RoleBarber, ActionViewStats, "b1", "b1", nil},
		{"customer cannot view stats", RoleCustomer, ActionViewStats, "c1", "c1", ErrForbidden},
		{"customer views own profile", RoleCustomer, ActionViewProfile, "c1", "c1", nil},
		{"customer cannot view another profile", RoleCustomer, ActionViewProfile, "c1", "c2", ErrForbidden},
		{"customer checks own availability", RoleCustomer, ActionCheckAvailability, "c1", "c1", nil},
		{"customer views own history", RoleCustomer, ActionViewHistory, "c1", "c1", nil},
		{"customer cannot view another history", RoleCustomer, ActionViewHistory, "c1", "c2", ErrForbidden},
		{"barber views any history", RoleBarber, ActionViewHistory, "b1", "c2", nil},
		{"admin views any history", RoleAdmin, ActionViewHistory, "a1", "c2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.role, tt.action, tt.callerID, tt.ownerID)
			if err != tt.wantErr {
				t.Fatalf("Authorize(%s, %s) = %v, want %v", tt.role, tt.action, err, tt.wantErr)
			}
		})
	}
}
