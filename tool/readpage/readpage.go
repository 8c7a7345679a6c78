package readpage

import (
	"fmt"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/meshagent-community/linkedin-agent/utils"
)

var log = logger.New("readpage")

const fetchTimeout = 10 * time.Second

type readTool struct{}

// New builds the read-webpage tool so the agent can pull article text
// while researching a post.
func New() tool.Tool {
	return &readTool{}
}

func (t *readTool) Name() string  { return "read-webpage" }
func (t *readTool) Title() string { return "read webpage" }
func (t *readTool) Description() string {
	return "extracts the readable article text from a webpage"
}

func (t *readTool) InputSchema() map[string]any {
	return tool.ObjectSchema(
		[]string{"url"},
		map[string]any{
			"url": map[string]any{"type": "string"},
		},
	)
}

func (t *readTool) Execute(ctx tool.Context, args map[string]any) (tool.Response, error) {
	pageURL, _ := args["url"].(string)

	article, err := readability.FromURL(pageURL, fetchTimeout)
	if err != nil {
		log.Err(err).
			Str("guid", ctx.GUID).
			Str("url", pageURL).
			Msg("Failed to extract article")
		return tool.FailureResponse(fmt.Sprintf("Could not read %s: %v", pageURL, err)), nil
	}

	text := article.TextContent
	if len(text) > utils.MaxArticleLength {
		text = text[:utils.MaxArticleLength]
	}

	if article.Title != "" {
		return tool.TextResponse(article.Title + "\n\n" + text), nil
	}

	return tool.TextResponse(text), nil
}
