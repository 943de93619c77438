// Package authz is the role authorization gate: pure, total functions from
// the resolved session to visible destinations and permitted actions.
package authz

import (
	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
)

// Destination is a top-level navigable screen of the client.
type Destination string

const (
	DestinationHome           Destination = "home"
	DestinationChat           Destination = "chat"
	DestinationSchedule       Destination = "schedule"
	DestinationAdminDashboard Destination = "admin_dashboard"
	DestinationNotifications  Destination = "notifications"
)

// Action is a gated user operation.
type Action string

const (
	ActionCreateEvent      Action = "create_event"
	ActionEditEvent        Action = "edit_event"
	ActionSignUpForEvent   Action = "sign_up_for_event"
	ActionSendBroadcast    Action = "send_broadcast"
	ActionViewParentRoster Action = "view_parent_roster"
	ActionManageRoles      Action = "manage_roles"
)

// destinationsByRole carries an explicit entry for every enumerated role.
// Nothing falls through to an implicit default; a role missing here is a bug
// caught by the gate tests.
var destinationsByRole = map[domain.Role][]Destination{
	domain.RoleAdmin: {
		DestinationHome,
		DestinationChat,
		DestinationSchedule,
		DestinationAdminDashboard,
		DestinationNotifications,
	},
	domain.RoleVolunteer: {
		DestinationHome,
		DestinationChat,
		DestinationSchedule,
	},
	domain.RoleParent: {
		DestinationHome,
		DestinationChat,
		DestinationSchedule,
	},
}

// actionsByRole is equally explicit: every action names every role.
var actionsByRole = map[Action]map[domain.Role]bool{
	ActionCreateEvent: {
		domain.RoleAdmin:     true,
		domain.RoleVolunteer: false,
		domain.RoleParent:    false,
	},
	ActionEditEvent: {
		domain.RoleAdmin:     true,
		domain.RoleVolunteer: false,
		domain.RoleParent:    false,
	},
	ActionSignUpForEvent: {
		domain.RoleAdmin:     false,
		domain.RoleVolunteer: true,
		domain.RoleParent:    false,
	},
	ActionSendBroadcast: {
		domain.RoleAdmin:     true,
		domain.RoleVolunteer: false,
		domain.RoleParent:    false,
	},
	ActionViewParentRoster: {
		domain.RoleAdmin:     true,
		domain.RoleVolunteer: false,
		domain.RoleParent:    false,
	},
	ActionManageRoles: {
		domain.RoleAdmin:     true,
		domain.RoleVolunteer: false,
		domain.RoleParent:    false,
	},
}

// Actions lists every gated action, for exhaustiveness checks.
var Actions = []Action{
	ActionCreateEvent,
	ActionEditEvent,
	ActionSignUpForEvent,
	ActionSendBroadcast,
	ActionViewParentRoster,
	ActionManageRoles,
}

// VisibleDestinations returns the destinations reachable by the user.
// An anonymous caller gets none.
func VisibleDestinations(u *domain.User) []Destination {
	if u == nil {
		return nil
	}
	dests, ok := destinationsByRole[u.Role]
	if !ok {
		return nil
	}
	out := make([]Destination, len(dests))
	copy(out, dests)
	return out
}

// CanPerform reports whether the user may perform the action. Unknown roles
// and anonymous callers are denied.
func CanPerform(u *domain.User, action Action) bool {
	if u == nil {
		return false
	}
	roles, ok := actionsByRole[action]
	if !ok {
		return false
	}
	return roles[u.Role]
}
