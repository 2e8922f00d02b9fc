package service

import (
	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	"github.com/Kenia972/myyowntour-sub000/internal/external"
	"github.com/Kenia972/myyowntour-sub000/internal/messaging"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
)

type Services struct {
	Excursions    *ExcursionService
	Slots         *SlotService
	Bookings      *BookingService
	Checkin       *CheckinService
	Notifications *NotificationService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, platformClient *external.PlatformClient, valkeyClient *cache.ValkeyClient) *Services {
	excursionService := NewExcursionService(repos.Excursions, repos.ExcursionSearch, repos.Slots, repos.Profiles)
	slotService := NewSlotService(repos.Slots, repos.Excursions, repos.ExcursionSearch, valkeyClient)
	bookingService := NewBookingService(repos.Bookings, repos.Slots, repos.Excursions, repos.Profiles, natsClient)
	checkinService := NewCheckinService(platformClient, repos.Bookings, repos.Notifications, repos.Profiles, natsClient)
	notificationService := NewNotificationService(repos.Notifications, valkeyClient)

	return &Services{
		Excursions:    excursionService,
		Slots:         slotService,
		Bookings:      bookingService,
		Checkin:       checkinService,
		Notifications: notificationService,
	}
}
