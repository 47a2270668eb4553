package domain

import "errors"

var ErrForbidden = errors.New("access forbidden")

// Action identifies an operation gated by the authorization rules.
type Action string

const (
	ActionRegisterHaircut   Action = "register_haircut"
	ActionViewStats         Action = "view_stats"
	ActionViewProfile       Action = "view_profile"
	ActionCheckAvailability Action = "check_availability"
	ActionViewHistory       Action = "view_history"
)

// staffActions may only be performed by barbers and admins, regardless of
// which customer the action targets.
var staffActions = map[Action]bool{
	ActionRegisterHaircut: true,
	ActionViewStats:       true,
}

// Authorize decides whether a caller may perform action on the resource
// owned by ownerID. It is a pure function of (role, action, owner match):
//
//   - staff actions (registering haircuts, viewing stats) require the
//     barber or admin role;
//   - everything else is self-service: any authenticated caller on their
//     own resource, barbers and admins on anyone's.
func Authorize(role string, action Action, callerID, ownerID string) error {
	staff := role == RoleBarber || role == RoleAdmin

	if staffActions[action] {
		if !staff {
			return ErrForbidden
		}
		return nil
	}

	if callerID != ownerID && !staff {
		return ErrForbidden
	}
	return nil
}
