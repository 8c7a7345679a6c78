// Package room registers this service's paths with a MeshAgent room so
// agents and tools become visible in the studio. The room runtime
// itself is external; this side only announces and withdraws.
package room

import (
	"fmt"
	"os"

	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/meshagent-community/linkedin-agent/utils/httpUtils"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

const DefaultMailDomain = "mail.meshagent.com"

// Address is the mailbox through which a room's mail agents are
// reached.
func Address(projectID, roomName, domain string) string {
	if domain == "" {
		domain = DefaultMailDomain
	}
	return fmt.Sprintf("%s.%s@%s", roomName, projectID, domain)
}

type Client struct {
	apiURL string
	token  string

	Participant *ParticipantToken

	registrationService model.RegistrationService
	log                 zerolog.Logger
}

type registrationRequest struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// NewClient builds a room client from MESHAGENT_API_URL and
// MESHAGENT_TOKEN. Returns nil without error when no API URL is
// configured; the service then runs standalone.
func NewClient(registrationService model.RegistrationService) (*Client, error) {
	apiURL := os.Getenv("MESHAGENT_API_URL")
	if apiURL == "" {
		return nil, nil
	}

	token := os.Getenv("MESHAGENT_TOKEN")
	participant, err := ParseParticipantToken(token)
	if err != nil {
		return nil, fmt.Errorf("MESHAGENT_TOKEN: %w", err)
	}

	return &Client{
		apiURL:              apiURL,
		token:               token,
		Participant:         participant,
		registrationService: registrationService,
		log:                 logger.New("room"),
	}, nil
}

func (c *Client) RoomName() string {
	return c.Participant.RoomName
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.token,
	}
}

// Announce registers a path with the room and records it locally.
func (c *Client) Announce(path, kind, name string) error {
	requestURL := fmt.Sprintf("%s/rooms/%s/services", c.apiURL, c.Participant.RoomName)

	err := httpUtils.PostRequest(requestURL, c.headers(), &registrationRequest{
		Path: path,
		Kind: kind,
		Name: name,
	}, nil, nil)
	if err != nil {
		return err
	}

	err = c.registrationService.Save(&model.Registration{
		ID:   xid.New().String(),
		Room: c.Participant.RoomName,
		Path: path,
		Kind: kind,
		Name: name,
	})
	if err != nil {
		c.log.Err(err).
			Str("path", path).
			Msg("Failed to record registration")
	}

	c.log.Info().
		Str("room", c.Participant.RoomName).
		Str("path", path).
		Str("kind", kind).
		Msg("Registered with room")

	return nil
}

// WithdrawStale withdraws every registration recorded for this room by
// a previous run that did not shut down cleanly.
func (c *Client) WithdrawStale() error {
	registrations, err := c.registrationService.GetAll(c.Participant.RoomName)
	if err != nil {
		return err
	}

	for _, registration := range registrations {
		if err := c.Withdraw(registration.Path); err != nil {
			c.log.Err(err).
				Str("path", registration.Path).
				Msg("Failed to withdraw stale registration")
			continue
		}
		c.log.Info().
			Str("room", registration.Room).
			Str("path", registration.Path).
			Msg("Withdrew stale registration")
	}

	return nil
}

// Withdraw removes a path registration from the room.
func (c *Client) Withdraw(path string) error {
	requestURL := fmt.Sprintf("%s/rooms/%s/services/withdraw", c.apiURL, c.Participant.RoomName)

	err := httpUtils.PostRequest(requestURL, c.headers(), &registrationRequest{Path: path}, nil, nil)
	if err != nil {
		return err
	}

	err = c.registrationService.DeleteByPath(c.Participant.RoomName, path)
	if err != nil {
		c.log.Err(err).
			Str("path", path).
			Msg("Failed to remove registration record")
	}

	return nil
}
