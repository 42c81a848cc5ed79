package event

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrNotCreator           = errors.New("not event creator")
	ErrNotClubManager       = errors.New("not club manager")
	ErrClubPending          = errors.New("club is pending approval")
	ErrClubRejected         = errors.New("club has been rejected")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidSortOption    = errors.New("invalid sort option")
	ErrPriceRequired        = errors.New("price must be greater than zero for paid events")
)
