package model

import "time"

type User struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	CreatedAt  time.Time
}

type Room struct {
	ID        string
	Name      string
	Resources []string
	CreatedAt time.Time
}

// Meeting is one entry on the shared calendar. Organizer is the first
// participant; RoomID is empty for meetings without a reserved room.
type Meeting struct {
	ID           string
	Name         string
	StartTime    time.Time
	EndTime      time.Time
	RoomID       string
	Organizer    string
	Participants []string
	CreatedAt    time.Time
}
