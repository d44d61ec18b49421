package core

import "time"

type Movie struct {
	ID          int64
	Title       string
	ReleaseDate time.Time
}

type Gender struct {
	ID   int64
	Name string
}

type Actor struct {
	ID       int64
	Name     string
	DOB      time.Time
	GenderID int64
}

// Age son los años cumplidos a la fecha now.
func (a Actor) Age(now time.Time) int {
	return AgeAt(a.DOB, now)
}

// AgeAt calcula años completos entre dob y now (0 si dob es futuro).
func AgeAt(dob, now time.Time) int {
	if dob.IsZero() || now.Before(dob) {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

type Casting struct {
	ID          int64
	ActorID     int64
	MovieID     int64
	CastingDate time.Time
	RecastYN    bool

	// Sólo lectura: nombre del actor y título de la película.
	ActorName  string
	MovieTitle string
}
