package sql

import (
	"github.com/jmoiron/sqlx"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/rs/zerolog"
)

type registrationService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewRegistrationService(db *sqlx.DB) *registrationService {
	return &registrationService{
		DB:  db,
		log: logger.New("registrationService"),
	}
}

func (db *registrationService) Save(registration *model.Registration) error {
	const query = `INSERT INTO registrations (id, room, path, kind, name) VALUES (?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE kind = VALUES(kind), name = VALUES(name)`
	_, err := db.Exec(query, registration.ID, registration.Room, registration.Path, registration.Kind, registration.Name)
	return err
}

func (db *registrationService) DeleteByPath(room, path string) error {
	const query = `DELETE FROM registrations WHERE room = ? AND path = ?`
	_, err := db.Exec(query, room, path)
	return err
}

func (db *registrationService) GetAll(room string) ([]model.Registration, error) {
	const query = `SELECT id, room, path, kind, name, created_at FROM registrations WHERE room = ? ORDER BY created_at`
	var registrations []model.Registration
	err := db.Select(&registrations, query, room)
	return registrations, err
}
