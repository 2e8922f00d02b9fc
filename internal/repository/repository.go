package repository

import (
	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/search"
)

type Repositories struct {
	Excursions      *ExcursionRepository
	ExcursionSearch *ExcursionSearchRepository
	Slots           *SlotRepository
	Bookings        *BookingRepository
	Profiles        *ProfileRepository
	Notifications   *NotificationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Excursions:    NewExcursionRepository(db),
		Slots:         NewSlotRepository(db),
		Bookings:      NewBookingRepository(db),
		Profiles:      NewProfileRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

func NewRepositoriesWithElasticsearch(db *database.DB, es *search.ElasticsearchClient) *Repositories {
	repos := NewRepositories(db)
	repos.ExcursionSearch = NewExcursionSearchRepository(es)
	return repos
}
