package policy

import (
	"facility/config"
	"facility/shared/constant"
	"facility/shared/failure"
	"facility/shared/identity"
)

type Action string

const (
	ActionListRooms        Action = "room.list"
	ActionViewRoom         Action = "room.view"
	ActionViewAvailability Action = "room.availability"
	ActionCreateRoom       Action = "room.create"
	ActionUpdateRoom       Action = "room.update"
	ActionDeleteRoom       Action = "room.delete"
	ActionUploadRoomImage  Action = "room.image"

	ActionListReservations      Action = "reservation.list"
	ActionListUserReservations  Action = "reservation.list_user"
	ActionListAllReservations   Action = "reservation.list_all"
	ActionCreateReservation     Action = "reservation.create"
	ActionViewReservation       Action = "reservation.view"
	ActionRescheduleReservation Action = "reservation.reschedule"
	ActionCancelReservation     Action = "reservation.cancel"
)

type kind int

const (
	kindAuthenticated kind = iota + 1
	kindAdmin
	kindSelf
)

var actions = map[Action]kind{
	ActionListRooms:        kindAuthenticated,
	ActionViewRoom:         kindAuthenticated,
	ActionViewAvailability: kindAuthenticated,
	ActionCreateRoom:       kindAdmin,
	ActionUpdateRoom:       kindAdmin,
	ActionDeleteRoom:       kindAdmin,
	ActionUploadRoomImage:  kindAdmin,

	ActionListReservations:      kindAuthenticated,
	ActionListUserReservations:  kindSelf,
	ActionListAllReservations:   kindAdmin,
	ActionCreateReservation:     kindAuthenticated,
	ActionViewReservation:       kindSelf,
	ActionRescheduleReservation: kindSelf,
	ActionCancelReservation:     kindSelf,
}

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Scope is the shape of a listing query. An empty OwnerID together with All means unscoped.
type Scope struct {
	All     bool
	OwnerID string
}

type Policy interface {
	Decide(action Action, id identity.Identity, ownerID string) Decision
	Authorize(action Action, id identity.Identity, ownerID string) error
	ListScope(id identity.Identity) Scope
	IsAdmin(id identity.Identity) bool
}

type policyImpl struct {
	adminRole string
}

func New(cfg *config.Config) Policy {
	adminRole := cfg.Auth.AdminRole
	if adminRole == constant.Empty {
		adminRole = constant.RoleAdmin
	}

	return &policyImpl{
		adminRole: adminRole,
	}
}

// Decide has no side effects and never touches the store.
func (p *policyImpl) Decide(action Action, id identity.Identity, ownerID string) Decision {
	if id.IsAnonymous() {
		return Deny
	}

	k, known := actions[action]
	if !known {
		return Deny
	}

	if p.IsAdmin(id) {
		return Allow
	}

	switch k {
	case kindAuthenticated:
		return Allow
	case kindSelf:
		return Decision(ownerID != constant.Empty && id.Subject == ownerID)
	default:
		return Deny
	}
}

func (p *policyImpl) Authorize(action Action, id identity.Identity, ownerID string) error {
	if id.IsAnonymous() {
		return failure.Unauthorized("authentication required")
	}

	if p.Decide(action, id, ownerID) == Deny {
		return failure.ForbiddenError
	}

	return nil
}

func (p *policyImpl) ListScope(id identity.Identity) Scope {
	if p.IsAdmin(id) {
		return Scope{All: true}
	}

	return Scope{OwnerID: id.Subject}
}

func (p *policyImpl) IsAdmin(id identity.Identity) bool {
	return id.HasRole(p.adminRole)
}
