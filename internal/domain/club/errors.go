package club

import "errors"

var (
	ErrClubNotFound         = errors.New("club not found")
	ErrClubNameTaken        = errors.New("club name already exists")
	ErrClubNotPending       = errors.New("club already decided")
	ErrClubPending          = errors.New("club is pending approval")
	ErrClubRejected         = errors.New("club has been rejected")
	ErrNotCreator           = errors.New("not club creator")
	ErrNotManager           = errors.New("not club manager")
	ErrAlreadyMember        = errors.New("membership already exists")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrMembershipNotPending = errors.New("membership already decided")
	ErrCreatorCannotLeave   = errors.New("creator cannot leave club")
	ErrInvalidStatus        = errors.New("invalid status")
)
