package sql

import (
	"github.com/jmoiron/sqlx"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/rs/zerolog"
)

type credentialService struct {
	*sqlx.DB
	log         zerolog.Logger
	credentials map[string]string
}

func NewCredentialService(db *sqlx.DB) *credentialService {
	s := &credentialService{
		DB:  db,
		log: logger.New("credentialService"),
	}

	const query = `SELECT name, value FROM credentials`
	var credentials []model.Credential
	err := db.Select(&credentials, query)

	s.credentials = make(map[string]string)

	if err != nil {
		s.log.Err(err).Msg("Failed to load credentials")
	} else {
		for _, cred := range credentials {
			s.credentials[cred.Name] = cred.Value
		}
	}

	return s
}

func (db *credentialService) GetAllCredentials() map[string]string {
	return db.credentials
}

func (db *credentialService) GetKey(name string) (string, error) {
	value, exists := db.credentials[name]
	if !exists {
		return "", model.ErrNotFound
	}
	return value, nil
}

func (db *credentialService) SetKey(name, value string) error {
	const query = `INSERT INTO credentials (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`
	_, err := db.Exec(query, name, value)

	if err == nil {
		db.credentials[name] = value
	}
	return err
}

func (db *credentialService) DeleteKey(name string) error {
	const query = `DELETE FROM credentials WHERE name = ?`
	res, err := db.Exec(query, name)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if rows == 0 {
		return model.ErrNotFound
	}

	delete(db.credentials, name)

	return err
}
