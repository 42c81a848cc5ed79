package handler

import (
	announcementdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/announcement"
	clubdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/club"
	eventdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/event"
	flagdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/flag"
	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
)

type Handlers struct {
	Clubs         *clubdomain.Service
	Events        *eventdomain.Service
	Announcements *announcementdomain.Service
	Flags         *flagdomain.Service
	Moderation    *moderationdomain.Service

	log logger.Logger
}

func New(clubs *clubdomain.Service, events *eventdomain.Service, announcements *announcementdomain.Service, flags *flagdomain.Service, moderation *moderationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Clubs:         clubs,
		Events:        events,
		Announcements: announcements,
		Flags:         flags,
		Moderation:    moderation,
		log:           log,
	}
}
