// Package agent implements the chat agent that drafts LinkedIn posts
// with the user and publishes them through the linkedin-toolkit once
// the user approves.
package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meshagent-community/linkedin-agent/llm/openai"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/rs/zerolog"
)

// MaxToolRounds bounds the tool-call loop for one user message.
const MaxToolRounds = 8

var DefaultRules = []string{
	"You help users draft and post content to LinkedIn. You work iteratively " +
		"with the user to draft the right content for their post until they " +
		"approve it. Once the user approves the post you post it to their " +
		"LinkedIn. Always verify with the user that they are ready to post the " +
		"content before you share it to their LinkedIn.",
	"You have access to a variety of tools to help you create, refine, and " +
		"share the content to LinkedIn.",
}

type ChatBot struct {
	name        string
	title       string
	description string
	rules       []string
	adapter     *openai.Adapter
	toolkits    []*tool.Toolkit

	conversationService model.ConversationService
	log                 zerolog.Logger
}

type Config struct {
	// Name defaults to linkedin-agent; container recipes override it
	// per deployment.
	Name        string
	Title       string
	Description string
	Rules       []string

	Adapter  *openai.Adapter
	Toolkits []*tool.Toolkit

	// ImageModel enables the generate-image tool when set.
	ImageModel string

	ConversationService model.ConversationService
}

func New(config Config) *ChatBot {
	name := config.Name
	if name == "" {
		name = "linkedin-agent"
	}

	title := config.Title
	if title == "" {
		title = "LinkedIn Agent"
	}

	description := config.Description
	if description == "" {
		description = "An agent who drafts and posts content to LinkedIn"
	}

	rules := config.Rules
	if rules == nil {
		rules = DefaultRules
	}

	toolkits := config.Toolkits
	if config.ImageModel != "" {
		toolkits = append(toolkits, &tool.Toolkit{
			Name:        "image-generation",
			Title:       "image generation",
			Description: "generates images for post drafts",
			Tools: []tool.Tool{
				&imageTool{adapter: config.Adapter, imageModel: config.ImageModel},
			},
		})
	}

	return &ChatBot{
		name:                name,
		title:               title,
		description:         description,
		rules:               rules,
		adapter:             config.Adapter,
		toolkits:            toolkits,
		conversationService: config.ConversationService,
		log:                 logger.New(name),
	}
}

func (a *ChatBot) Name() string              { return a.name }
func (a *ChatBot) Title() string             { return a.title }
func (a *ChatBot) Description() string       { return a.description }
func (a *ChatBot) Toolkits() []*tool.Toolkit { return a.toolkits }

// Chat runs one user turn: history in, tool calls executed, final
// assistant text out. History is persisted per conversation with a
// sliding expiry.
func (a *ChatBot) Chat(ctx tool.Context, conversationID, userMessage string) (string, error) {
	messages := a.loadHistory(conversationID)

	if len(messages) == 0 {
		messages = append(messages, openai.Message{
			Role:    openai.RoleSystem,
			Content: strings.Join(a.rules, "\n\n"),
		})
	}

	messages = append(messages, openai.Message{
		Role:    openai.RoleUser,
		Content: userMessage,
	})

	toolDefinitions := a.toolDefinitions()

	for round := 0; round < MaxToolRounds; round++ {
		reply, err := a.adapter.Chat(messages, toolDefinitions)
		if err != nil {
			return "", err
		}

		messages = append(messages, *reply)

		if len(reply.ToolCalls) == 0 {
			a.saveHistory(conversationID, messages)
			return reply.Content, nil
		}

		for _, toolCall := range reply.ToolCalls {
			messages = append(messages, a.runToolCall(ctx, toolCall))
		}
	}

	return "", errors.New("tool call loop did not settle")
}

func (a *ChatBot) runToolCall(ctx tool.Context, toolCall openai.ToolCall) openai.Message {
	result := openai.Message{
		Role:       openai.RoleTool,
		Name:       toolCall.Function.Name,
		ToolCallID: toolCall.ID,
	}

	calledTool, found := a.findTool(toolCall.Function.Name)
	if !found {
		result.Content = fmt.Sprintf("Unknown tool: %s", toolCall.Function.Name)
		return result
	}

	var args map[string]any
	if toolCall.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
			result.Content = fmt.Sprintf("Invalid tool arguments: %v", err)
			return result
		}
	}

	a.log.Info().
		Str("guid", ctx.GUID).
		Str("tool", toolCall.Function.Name).
		Msg("Agent tool call")

	response, err := tool.Call(ctx, calledTool, args)
	if err != nil {
		result.Content = fmt.Sprintf("Tool failed: %v", err)
		return result
	}

	result.Content = response.Text
	if !response.Success && result.Content == "" {
		result.Content = "Tool reported failure."
	}
	return result
}

func (a *ChatBot) findTool(name string) (tool.Tool, bool) {
	for _, toolkit := range a.toolkits {
		if t, found := toolkit.Get(name); found {
			return t, true
		}
	}
	return nil, false
}

func (a *ChatBot) toolDefinitions() []openai.ToolDefinition {
	var definitions []openai.ToolDefinition
	for _, toolkit := range a.toolkits {
		for _, t := range toolkit.Tools {
			definitions = append(definitions, openai.ToolDefinition{
				Type: "function",
				Function: openai.FunctionDefinition{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.InputSchema(),
				},
			})
		}
	}
	return definitions
}

func (a *ChatBot) loadHistory(conversationID string) []openai.Message {
	conversationData, err := a.conversationService.GetHistory(conversationID)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("error getting conversation history")
		return nil
	}

	if !conversationData.History.Valid || !conversationData.ExpiresOn.Valid {
		return nil
	}

	if time.Now().After(conversationData.ExpiresOn.Time) {
		return nil
	}

	var messages []openai.Message
	err = json.Unmarshal([]byte(conversationData.History.String), &messages)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("error unmarshaling conversation history")
		return nil
	}

	return messages
}

func (a *ChatBot) saveHistory(conversationID string, messages []openai.Message) {
	history, err := json.Marshal(messages)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("error marshaling conversation history")
		return
	}

	err = a.conversationService.SetHistory(conversationID, a.name, string(history))
	if err != nil {
		a.log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("error saving conversation history")
	}
}
