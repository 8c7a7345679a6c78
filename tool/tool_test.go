package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct{}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Title() string       { return "echo" }
func (t *echoTool) Description() string { return "echoes its text argument" }

func (t *echoTool) InputSchema() map[string]any {
	return ObjectSchema(
		[]string{"text"},
		map[string]any{
			"text": map[string]any{"type": "string"},
		},
	)
}

func (t *echoTool) Execute(_ Context, args map[string]any) (Response, error) {
	text, _ := args["text"].(string)
	return TextResponse(text), nil
}

func TestValidateAcceptsMatchingArgs(t *testing.T) {
	err := Validate(&echoTool{}, map[string]any{"text": "hi"})
	assert.NoError(t, err)
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	err := Validate(&echoTool{}, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "echo")
}

func TestValidateRejectsUnknownProperty(t *testing.T) {
	err := Validate(&echoTool{}, map[string]any{"text": "hi", "extra": true})
	assert.Error(t, err)
}

func TestValidateRejectsWrongType(t *testing.T) {
	err := Validate(&echoTool{}, map[string]any{"text": 5})
	assert.Error(t, err)
}

// A tool without required fields accepts a nil argument map.
func TestValidateNilArgs(t *testing.T) {
	err := Validate(&openEchoTool{}, nil)
	assert.NoError(t, err)
}

type openEchoTool struct{ echoTool }

func (t *openEchoTool) InputSchema() map[string]any {
	return ObjectSchema(nil, map[string]any{
		"text": map[string]any{"type": "string"},
	})
}

func TestCallRunsAfterValidation(t *testing.T) {
	response, err := Call(Context{}, &echoTool{}, map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "hello", response.Text)
}

func TestToolkitGet(t *testing.T) {
	toolkit := &Toolkit{
		Name:  "test",
		Tools: []Tool{&echoTool{}},
	}

	_, found := toolkit.Get("echo")
	assert.True(t, found)

	_, found = toolkit.Get("missing")
	assert.False(t, found)
}

func TestStringArg(t *testing.T) {
	args := map[string]any{"visibility": "LOGGED_IN", "empty": ""}

	assert.Equal(t, "LOGGED_IN", StringArg(args, "visibility", "PUBLIC"))
	assert.Equal(t, "PUBLIC", StringArg(args, "missing", "PUBLIC"))
	assert.Equal(t, "PUBLIC", StringArg(args, "empty", "PUBLIC"))
}

func TestIntArg(t *testing.T) {
	args := map[string]any{"count": float64(3)}

	assert.Equal(t, 3, IntArg(args, "count", 1))
	assert.Equal(t, 1, IntArg(args, "missing", 1))
}
