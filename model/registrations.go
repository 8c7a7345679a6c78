package model

import "time"

type (
	RegistrationService interface {
		Save(registration *Registration) error
		DeleteByPath(room, path string) error
		GetAll(room string) ([]Registration, error)
	}

	Registration struct {
		ID        string    `db:"id"`
		Room      string    `db:"room"`
		Path      string    `db:"path"`
		Kind      string    `db:"kind"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}
)
