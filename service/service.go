// Package service implements the HTTP host that exposes toolkits and
// agents at registered paths, the way a MeshAgent service host does.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/room"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

const DefaultPort = 7778

type (
	// Agent is a conversational entity served at a path.
	Agent interface {
		Name() string
		Title() string
		Description() string
		Toolkits() []*tool.Toolkit
		Chat(ctx tool.Context, conversationID, message string) (string, error)
	}

	Host struct {
		port       int
		authToken  string
		roomClient *room.Client

		engine *gin.Engine
		paths  []PathInfo

		server *http.Server
		log    zerolog.Logger
	}

	PathInfo struct {
		Path        string `json:"path"`
		Kind        string `json:"kind"`
		Name        string `json:"name"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	descriptor struct {
		PathInfo
		Tools []toolInfo `json:"tools,omitempty"`
	}

	toolInfo struct {
		Name        string         `json:"name"`
		Title       string         `json:"title"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"input_schema"`
	}

	chatRequest struct {
		ConversationID string `json:"conversation_id"`
		Message        string `json:"message"`
	}

	chatResponse struct {
		ConversationID string `json:"conversation_id"`
		Reply          string `json:"reply"`
	}

	errorResponse struct {
		Error string `json:"error"`
		GUID  string `json:"guid,omitempty"`
	}
)

// NewHost builds a host on the given port. The room client may be nil,
// the host then serves without announcing itself anywhere.
func NewHost(port int, authToken string, roomClient *room.Client) *Host {
	if port == 0 {
		port = DefaultPort
	}

	gin.SetMode(gin.ReleaseMode)

	h := &Host{
		port:       port,
		authToken:  authToken,
		roomClient: roomClient,
		engine:     gin.New(),
		log:        logger.New("service"),
	}

	h.engine.Use(h.assignGUID, gin.CustomRecovery(h.onPanic))

	// healthz stays open for probes
	h.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	h.engine.GET("/v1/paths", h.withAuth, h.onListPaths)

	return h
}

func (h *Host) Port() int { return h.port }

func (h *Host) Paths() []PathInfo { return h.paths }

// RegisterToolkit serves a toolkit at path: a descriptor at the path
// itself and one call endpoint per tool.
func (h *Host) RegisterToolkit(path string, toolkit *tool.Toolkit) {
	info := PathInfo{
		Path:        path,
		Kind:        "toolkit",
		Name:        toolkit.Name,
		Title:       toolkit.Title,
		Description: toolkit.Description,
	}
	h.paths = append(h.paths, info)

	h.engine.GET(path, h.withAuth, func(c *gin.Context) {
		c.JSON(http.StatusOK, toolkitDescriptor(info, toolkit))
	})

	h.engine.POST(path+"/tools/:toolName", h.withAuth, func(c *gin.Context) {
		h.onCallTool(c, toolkit)
	})
}

// RegisterAgent serves an agent at path with a chat endpoint.
func (h *Host) RegisterAgent(path string, a Agent) {
	info := PathInfo{
		Path:        path,
		Kind:        "agent",
		Name:        a.Name(),
		Title:       a.Title(),
		Description: a.Description(),
	}
	h.paths = append(h.paths, info)

	h.engine.GET(path, h.withAuth, func(c *gin.Context) {
		d := descriptor{PathInfo: info}
		for _, toolkit := range a.Toolkits() {
			d.Tools = append(d.Tools, toolkitDescriptor(info, toolkit).Tools...)
		}
		c.JSON(http.StatusOK, d)
	})

	h.engine.POST(path+"/chat", h.withAuth, func(c *gin.Context) {
		h.onChat(c, a)
	})
}

// Run serves until ctx is cancelled. Registrations left behind by a
// previous run are withdrawn first, then the paths are announced to
// the room and withdrawn again on shutdown.
func (h *Host) Run(ctx context.Context) error {
	h.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", h.port),
		Handler: h.engine,
	}

	if h.roomClient != nil {
		if err := h.roomClient.WithdrawStale(); err != nil {
			h.log.Err(err).Msg("Failed to withdraw stale registrations")
		}
		for _, info := range h.paths {
			if err := h.roomClient.Announce(info.Path, info.Kind, info.Name); err != nil {
				return fmt.Errorf("announcing %s: %w", info.Path, err)
			}
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.ListenAndServe()
	}()

	h.log.Info().Int("port", h.port).Msg("running")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	if h.roomClient != nil {
		for _, info := range h.paths {
			if err := h.roomClient.Withdraw(info.Path); err != nil {
				h.log.Err(err).Str("path", info.Path).Msg("Failed to withdraw path")
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return h.server.Shutdown(shutdownCtx)
}

func (h *Host) assignGUID(c *gin.Context) {
	c.Set("guid", xid.New().String())
}

func (h *Host) withAuth(c *gin.Context) {
	if h.authToken == "" {
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+h.authToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
}

func (h *Host) onPanic(c *gin.Context, recovered any) {
	guid := c.GetString("guid")
	h.log.Error().
		Str("guid", guid).
		Str("path", c.Request.URL.Path).
		Msgf("%v", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Error: "internal error",
		GUID:  guid,
	})
}

func (h *Host) onListPaths(c *gin.Context) {
	c.JSON(http.StatusOK, h.paths)
}

func (h *Host) onCallTool(c *gin.Context, toolkit *tool.Toolkit) {
	toolName := c.Param("toolName")
	guid := c.GetString("guid")

	calledTool, found := toolkit.Get(toolName)
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("no such tool: %s", toolName),
			GUID:  guid,
		})
		return
	}

	// An empty body means a tool without arguments.
	var args map[string]any
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "invalid request body",
			GUID:  guid,
		})
		return
	}

	response, err := tool.Call(h.toolContext(c, guid), calledTool, args)
	if err != nil {
		h.log.Err(err).
			Str("guid", guid).
			Str("tool", toolName).
			Send()
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: err.Error(),
			GUID:  guid,
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Host) onChat(c *gin.Context, a Agent) {
	guid := c.GetString("guid")

	var request chatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", GUID: guid})
		return
	}

	if request.Message == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required", GUID: guid})
		return
	}

	conversationID := request.ConversationID
	if conversationID == "" {
		conversationID = xid.New().String()
	}

	reply, err := a.Chat(h.toolContext(c, guid), conversationID, request.Message)
	if err != nil {
		h.log.Err(err).
			Str("guid", guid).
			Str("agent", a.Name()).
			Str("conversation_id", conversationID).
			Send()
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: "agent error",
			GUID:  guid,
		})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		ConversationID: conversationID,
		Reply:          reply,
	})
}

func (h *Host) toolContext(c *gin.Context, guid string) tool.Context {
	ctx := tool.Context{
		Ctx:  c.Request.Context(),
		GUID: guid,
	}
	if h.roomClient != nil {
		ctx.Room = h.roomClient.RoomName()
		ctx.Participant = h.roomClient.Participant.Name
	}
	return ctx
}

func toolkitDescriptor(info PathInfo, toolkit *tool.Toolkit) descriptor {
	d := descriptor{PathInfo: info}
	for _, t := range toolkit.Tools {
		d.Tools = append(d.Tools, toolInfo{
			Name:        t.Name(),
			Title:       t.Title(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return d
}
