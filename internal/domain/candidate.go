package domain

import "time"

type HiredCandidate struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	Degree       string
	HiredCity    string
	HiredDate    time.Time
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
