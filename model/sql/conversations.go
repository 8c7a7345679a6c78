package sql

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/rs/zerolog"
)

type conversationService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewConversationService(db *sqlx.DB) *conversationService {
	return &conversationService{
		DB:  db,
		log: logger.New("conversationService"),
	}
}

func (db *conversationService) GetHistory(conversationID string) (model.ConversationData, error) {
	const query = `SELECT history, expires_on FROM conversations WHERE id = ?`
	var conversationData model.ConversationData
	err := db.Get(&conversationData, query, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return conversationData, nil
		}
	}
	return conversationData, err
}

func (db *conversationService) SetHistory(conversationID, agent, history string) error {
	const query = `INSERT INTO conversations (id, agent, history, expires_on)
	VALUES (?, ?, ?, NOW() + INTERVAL 10 MINUTE)
	ON DUPLICATE KEY UPDATE history = VALUES(history), expires_on = VALUES(expires_on)`
	_, err := db.Exec(query, conversationID, agent, history)
	return err
}

func (db *conversationService) ResetHistory(conversationID string) error {
	const query = `UPDATE conversations SET history = NULL, expires_on = NULL WHERE id = ?`
	_, err := db.Exec(query, conversationID)
	return err
}
