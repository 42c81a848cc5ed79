package announcement

import "errors"

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrNotAuthor            = errors.New("not announcement author")
	ErrNotClubManager       = errors.New("not club manager")
	ErrClubPending          = errors.New("club is pending approval")
	ErrClubRejected         = errors.New("club has been rejected")
)
