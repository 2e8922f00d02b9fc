package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createProfilesTable,
		createGuidesTable,
		createTourOperatorsTable,
		createExcursionsTable,
		createAvailabilitySlotsTable,
		createBookingsTable,
		createNotificationsTable,
		createSlotDateIndex,
		createBookingSlotIndex,
		createNotificationUnreadIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'client',
    phone VARCHAR(30),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('client', 'guide', 'tour_operator', 'admin'))
);`

const createGuidesTable = `
CREATE TABLE IF NOT EXISTS guides (
    id SERIAL PRIMARY KEY,
    profile_id INTEGER NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    company_name VARCHAR(255),
    bio TEXT,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createTourOperatorsTable = `
CREATE TABLE IF NOT EXISTS tour_operators (
    id SERIAL PRIMARY KEY,
    profile_id INTEGER NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    company_name VARCHAR(255) NOT NULL,
    commission_rate DECIMAL(5,2) NOT NULL DEFAULT 10.0,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createExcursionsTable = `
CREATE TABLE IF NOT EXISTS excursions (
    id SERIAL PRIMARY KEY,
    guide_id INTEGER NOT NULL REFERENCES guides(id) ON DELETE CASCADE,
    title VARCHAR(500) NOT NULL,
    description TEXT,
    destination VARCHAR(255) NOT NULL,
    category VARCHAR(50) NOT NULL DEFAULT 'other',
    duration_minutes INTEGER NOT NULL DEFAULT 120,
    price_cents BIGINT NOT NULL,
    max_participants INTEGER NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (max_participants > 0)
);`

const createAvailabilitySlotsTable = `
CREATE TABLE IF NOT EXISTS availability_slots (
    id SERIAL PRIMARY KEY,
    excursion_id INTEGER NOT NULL REFERENCES excursions(id) ON DELETE CASCADE,
    slot_date DATE NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    max_participants INTEGER NOT NULL,
    price_override BIGINT,
    is_available BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(excursion_id, slot_date, start_time),
    CHECK (max_participants > 0)
);`

// Note: there is deliberately no constraint tying the sum of confirmed
// participants to max_participants. Capacity is only checked in the
// submission flow; the audit job detects violations after the fact.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    excursion_id INTEGER NOT NULL REFERENCES excursions(id) ON DELETE CASCADE,
    slot_id INTEGER REFERENCES availability_slots(id) ON DELETE SET NULL,
    client_id INTEGER REFERENCES profiles(id),
    operator_id INTEGER REFERENCES tour_operators(id),
    participants_count INTEGER NOT NULL,
    total_amount_cents BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    special_requests TEXT,
    checkin_token UUID NOT NULL,
    is_checked_in BOOLEAN NOT NULL DEFAULT FALSE,
    checkin_time TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (participants_count > 0),
    CHECK (status IN ('pending', 'on_hold', 'confirmed', 'cancelled', 'completed'))
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    type VARCHAR(50) NOT NULL,
    title VARCHAR(255) NOT NULL,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createSlotDateIndex = `
CREATE INDEX IF NOT EXISTS idx_slots_excursion_date
ON availability_slots(excursion_id, slot_date);`

const createBookingSlotIndex = `
CREATE INDEX IF NOT EXISTS idx_bookings_slot_status
ON bookings(slot_id, status);`

const createNotificationUnreadIndex = `
CREATE INDEX IF NOT EXISTS idx_notifications_unread
ON notifications(profile_id) WHERE is_read = FALSE;`
