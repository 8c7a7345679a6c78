package agent

import (
	"fmt"

	"github.com/meshagent-community/linkedin-agent/llm/openai"
	"github.com/meshagent-community/linkedin-agent/tool"
)

type imageTool struct {
	adapter    *openai.Adapter
	imageModel string
}

func (t *imageTool) Name() string  { return "generate-image" }
func (t *imageTool) Title() string { return "generate image" }
func (t *imageTool) Description() string {
	return "generates an image from a prompt and returns its URL"
}

func (t *imageTool) InputSchema() map[string]any {
	return tool.ObjectSchema(
		[]string{"prompt"},
		map[string]any{
			"prompt": map[string]any{"type": "string"},
		},
	)
}

func (t *imageTool) Execute(_ tool.Context, args map[string]any) (tool.Response, error) {
	prompt, _ := args["prompt"].(string)

	imageURL, err := t.adapter.GenerateImage(t.imageModel, prompt)
	if err != nil {
		return tool.FailureResponse(fmt.Sprintf("Image generation failed: %v", err)), nil
	}

	return tool.TextResponse("Image generated: " + imageURL), nil
}
