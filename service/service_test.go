package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct{}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Title() string       { return "echo" }
func (t *echoTool) Description() string { return "echoes its text argument" }

func (t *echoTool) InputSchema() map[string]any {
	return tool.ObjectSchema(
		[]string{"text"},
		map[string]any{
			"text": map[string]any{"type": "string"},
		},
	)
}

func (t *echoTool) Execute(ctx tool.Context, args map[string]any) (tool.Response, error) {
	text, _ := args["text"].(string)
	if text == "boom" {
		panic("boom")
	}
	return tool.TextResponse(text), nil
}

type stubAgent struct {
	lastConversationID string
	lastMessage        string
}

func (a *stubAgent) Name() string              { return "stub-agent" }
func (a *stubAgent) Title() string             { return "Stub Agent" }
func (a *stubAgent) Description() string       { return "a stub" }
func (a *stubAgent) Toolkits() []*tool.Toolkit { return nil }

func (a *stubAgent) Chat(_ tool.Context, conversationID, message string) (string, error) {
	a.lastConversationID = conversationID
	a.lastMessage = message
	return "reply to: " + message, nil
}

func newTestHost(t *testing.T, authToken string) (*Host, *httptest.Server, *stubAgent) {
	t.Helper()

	host := NewHost(0, authToken, nil)
	host.RegisterToolkit("/testtools", &tool.Toolkit{
		Name:        "test-toolkit",
		Title:       "test toolkit",
		Description: "toolkit under test",
		Tools:       []tool.Tool{&echoTool{}},
	})

	agent := &stubAgent{}
	host.RegisterAgent("/testagent", agent)

	server := httptest.NewServer(host.engine)
	t.Cleanup(server.Close)

	return host, server, agent
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListPaths(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp, err := http.Get(server.URL + "/v1/paths")
	require.NoError(t, err)
	defer resp.Body.Close()

	var paths []PathInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&paths))

	require.Len(t, paths, 2)
	assert.Equal(t, "/testtools", paths[0].Path)
	assert.Equal(t, "toolkit", paths[0].Kind)
	assert.Equal(t, "/testagent", paths[1].Path)
	assert.Equal(t, "agent", paths[1].Kind)
}

func TestToolkitDescriptor(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp, err := http.Get(server.URL + "/testtools")
	require.NoError(t, err)
	defer resp.Body.Close()

	var d struct {
		Name  string `json:"name"`
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"input_schema"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))

	assert.Equal(t, "test-toolkit", d.Name)
	require.Len(t, d.Tools, 1)
	assert.Equal(t, "echo", d.Tools[0].Name)
	assert.Equal(t, "object", d.Tools[0].InputSchema["type"])
}

func TestCallTool(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testtools/tools/echo", map[string]any{"text": "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response tool.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, "hi", response.Text)
}

func TestCallToolInvalidArgs(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testtools/tools/echo", map[string]any{"wrong": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var response struct {
		Error string `json:"error"`
		GUID  string `json:"guid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.NotEmpty(t, response.Error)
	assert.NotEmpty(t, response.GUID)
}

func TestCallToolUnknown(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testtools/tools/missing", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCallToolPanicRecovered(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testtools/tools/echo", map[string]any{"text": "boom"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var response struct {
		GUID string `json:"guid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.NotEmpty(t, response.GUID)
}

func TestChatIssuesConversationID(t *testing.T) {
	_, server, agent := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testagent/chat", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var response struct {
		ConversationID string `json:"conversation_id"`
		Reply          string `json:"reply"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))

	assert.NotEmpty(t, response.ConversationID)
	assert.Equal(t, "reply to: hello", response.Reply)
	assert.Equal(t, response.ConversationID, agent.lastConversationID)
}

func TestChatKeepsConversationID(t *testing.T) {
	_, server, agent := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testagent/chat", map[string]string{
		"conversation_id": "conv42",
		"message":         "again",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "conv42", agent.lastConversationID)
	assert.Equal(t, "again", agent.lastMessage)
}

func TestChatRequiresMessage(t *testing.T) {
	_, server, _ := newTestHost(t, "")

	resp := postJSON(t, server.URL+"/testagent/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthTokenEnforced(t *testing.T) {
	_, server, _ := newTestHost(t, "secret")

	resp := postJSON(t, server.URL+"/testtools/tools/echo", map[string]any{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// healthz stays open for probes
	healthResp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer healthResp.Body.Close()
	assert.Equal(t, http.StatusOK, healthResp.StatusCode)

	body, _ := json.Marshal(map[string]any{"text": "hi"})
	req, err := http.NewRequest(http.MethodPost, server.URL+"/testtools/tools/echo", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")

	authedResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authedResp.Body.Close()
	assert.Equal(t, http.StatusOK, authedResp.StatusCode)
}
