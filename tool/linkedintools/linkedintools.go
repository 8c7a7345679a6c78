package linkedintools

import (
	"fmt"
	"strings"
	"sync"

	"github.com/meshagent-community/linkedin-agent/linkedin"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/rs/xid"
)

var log = logger.New("linkedintools")

type ClientFactory func() (*linkedin.Client, error)

// clientSource hands out one shared LinkedIn client. Construction talks
// to the userinfo endpoint, so it happens on first use instead of at
// service start.
type clientSource struct {
	mu      sync.Mutex
	client  *linkedin.Client
	factory ClientFactory
}

func (s *clientSource) get() (*linkedin.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	client, err := s.factory()
	if err != nil {
		return nil, err
	}

	s.client = client
	return client, nil
}

// NewToolkit builds the linkedin-toolkit exposed at /linkedintools.
func NewToolkit(postService model.PostService, factory ClientFactory) *tool.Toolkit {
	if factory == nil {
		factory = func() (*linkedin.Client, error) {
			return linkedin.NewClient(nil)
		}
	}

	source := &clientSource{factory: factory}

	return &tool.Toolkit{
		Name:        "linkedin-toolkit",
		Title:       "linkedin-toolkit",
		Description: "a toolkit for posting content to linkedin",
		Tools: []tool.Tool{
			&verifyAuthTool{source: source},
			&postTextTool{source: source, postService: postService},
			&readLatestTool{source: source, postService: postService},
		},
	}
}

type verifyAuthTool struct {
	source *clientSource
}

func (t *verifyAuthTool) Name() string  { return "verify-linkedin-auth" }
func (t *verifyAuthTool) Title() string { return "verify linkedin auth" }
func (t *verifyAuthTool) Description() string {
	return "verifies LinkedIn access token & returns profile info"
}

func (t *verifyAuthTool) InputSchema() map[string]any {
	return tool.ObjectSchema(nil, nil)
}

// Execute probes the token. Failures flow back as text so the chat
// agent can relay them instead of choking on a transport error.
func (t *verifyAuthTool) Execute(ctx tool.Context, _ map[string]any) (tool.Response, error) {
	client, err := t.source.get()
	if err != nil {
		log.Error().
			Err(err).
			Str("guid", ctx.GUID).
			Msg("linkedin auth failed")
		return tool.FailureResponse(fmt.Sprintf("LinkedIn auth FAILED: %v", err)), nil
	}

	log.Info().
		Str("guid", ctx.GUID).
		Str("linkedin_version", client.Version()).
		Str("author_urn", client.AuthorUrn).
		Msg("linkedin auth ok")

	return tool.TextResponse(fmt.Sprintf("LinkedIn auth OK – %s %s", client.FirstName, client.LastName)), nil
}

type postTextTool struct {
	source      *clientSource
	postService model.PostService
}

func (t *postTextTool) Name() string  { return "post-text-to-linkedin" }
func (t *postTextTool) Title() string { return "post text to linkedin" }
func (t *postTextTool) Description() string {
	return "a tool that publishes a text based post to linkedin"
}

func (t *postTextTool) InputSchema() map[string]any {
	return tool.ObjectSchema(
		[]string{"post_text"},
		map[string]any{
			"post_text":  map[string]any{"type": "string"},
			"visibility": map[string]any{"type": "string"},
		},
	)
}

func (t *postTextTool) Execute(ctx tool.Context, args map[string]any) (tool.Response, error) {
	postText, _ := args["post_text"].(string)
	visibility := tool.StringArg(args, "visibility", linkedin.DefaultVisibility)

	client, err := t.source.get()
	if err != nil {
		return tool.FailureResponse(fmt.Sprintf("LinkedIn post failed: %v", err)), nil
	}

	// Never double-post identical text, even across restarts.
	duplicate, err := t.postService.IsDuplicate(client.AuthorUrn, postText)
	if err != nil {
		log.Err(err).
			Str("guid", ctx.GUID).
			Msg("duplicate check failed")
	}
	if duplicate {
		return tool.FailureResponse("Duplicate post suppressed."), nil
	}

	urn, err := client.Post(postText, visibility, false)
	if err != nil {
		return tool.FailureResponse(fmt.Sprintf("LinkedIn post failed: %v", err)), nil
	}

	err = t.postService.Save(&model.Post{
		ID:         xid.New().String(),
		Urn:        urn,
		AuthorUrn:  client.AuthorUrn,
		Commentary: postText,
		Visibility: visibility,
	})
	if err != nil {
		log.Err(err).
			Str("guid", ctx.GUID).
			Str("urn", urn).
			Msg("failed to record post")
	}

	return tool.TextResponse(fmt.Sprintf("Posted! URN: %s\nVisibility: %s", urn, visibility)), nil
}

type readLatestTool struct {
	source      *clientSource
	postService model.PostService
}

func (t *readLatestTool) Name() string  { return "read-latest-posts" }
func (t *readLatestTool) Title() string { return "read latest posts" }
func (t *readLatestTool) Description() string {
	return "reads the most recent posts from the user's LinkedIn feed"
}

func (t *readLatestTool) InputSchema() map[string]any {
	return tool.ObjectSchema(
		nil,
		map[string]any{
			"count": map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		},
	)
}

func (t *readLatestTool) Execute(ctx tool.Context, args map[string]any) (tool.Response, error) {
	count := tool.IntArg(args, "count", 1)

	client, err := t.source.get()
	if err != nil {
		return tool.FailureResponse(fmt.Sprintf("LinkedIn read failed: %v", err)), nil
	}

	elements, err := client.ReadLatest(count)
	if err != nil {
		return tool.FailureResponse(fmt.Sprintf("LinkedIn read failed: %v", err)), nil
	}

	// Without the r_member_social scope the feed is unreadable, so fall
	// back to the posts this service published itself.
	if elements == nil {
		return t.readRecorded(ctx, client.AuthorUrn, count), nil
	}

	if len(elements) == 0 {
		return tool.TextResponse("No posts found."), nil
	}

	var sb strings.Builder
	for i, element := range elements {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("%s (%s): %s", element.ID, element.Visibility, element.Commentary))
	}

	return tool.TextResponse(sb.String()), nil
}

func (t *readLatestTool) readRecorded(ctx tool.Context, authorUrn string, count int) tool.Response {
	posts, err := t.postService.History(authorUrn, count)
	if err != nil {
		log.Err(err).
			Str("guid", ctx.GUID).
			Msg("failed to read recorded posts")
		posts = nil
	}

	if len(posts) == 0 {
		return tool.TextResponse("The access token lacks the read scope (r_member_social); cannot read posts.")
	}

	var sb strings.Builder
	sb.WriteString("The access token lacks the read scope (r_member_social); showing posts published through this service instead.\n\n")
	for i, post := range posts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("%s (%s): %s", post.Urn, post.Visibility, post.Commentary))
	}

	return tool.TextResponse(sb.String())
}
