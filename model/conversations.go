package model

import "database/sql"

type (
	ConversationService interface {
		GetHistory(conversationID string) (ConversationData, error)
		SetHistory(conversationID, agent, history string) error
		ResetHistory(conversationID string) error
	}

	ConversationData struct {
		History   sql.NullString `db:"history"`
		ExpiresOn sql.NullTime   `db:"expires_on"`
	}
)
