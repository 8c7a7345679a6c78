package room

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ParticipantToken holds the claims of a MeshAgent participant token.
// The signature belongs to the room service; claims are decoded without
// validation, the token is only forwarded, never trusted locally.
type ParticipantToken struct {
	ProjectID string `json:"project_id"`
	RoomName  string `json:"room_name"`
	Name      string `json:"name"`
}

var ErrMalformedToken = errors.New("malformed participant token")

func ParseParticipantToken(token string) (*ParticipantToken, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}

	var participantToken ParticipantToken
	if err := json.Unmarshal(payload, &participantToken); err != nil {
		return nil, ErrMalformedToken
	}

	return &participantToken, nil
}
