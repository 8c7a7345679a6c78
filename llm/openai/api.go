package openai

// https://platform.openai.com/docs/api-reference/chat

const (
	ChatCompletionsUrl  = "https://api.openai.com/v1/chat/completions"
	ImageGenerationsUrl = "https://api.openai.com/v1/images/generations"

	DefaultModel = "gpt-4o-mini"

	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"

	Temperature = 0.7
	MaxTokens   = 1024
)

type (
	ChatRequest struct {
		Model       string           `json:"model"`
		Messages    []Message        `json:"messages"`
		Tools       []ToolDefinition `json:"tools,omitempty"`
		Temperature float32          `json:"temperature"`
		MaxTokens   int              `json:"max_tokens"`
	}

	Message struct {
		Role       string     `json:"role"`
		Content    string     `json:"content"`
		Name       string     `json:"name,omitempty"`
		ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
		ToolCallID string     `json:"tool_call_id,omitempty"`
	}

	ToolCall struct {
		ID       string       `json:"id"`
		Type     string       `json:"type"`
		Function FunctionCall `json:"function"`
	}

	FunctionCall struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	}

	ToolDefinition struct {
		Type     string             `json:"type"`
		Function FunctionDefinition `json:"function"`
	}

	FunctionDefinition struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	}

	ChatResponse struct {
		Choices []struct {
			Message      Message `json:"message"`
			FinishReason string  `json:"finish_reason"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	ImageRequest struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		N      int    `json:"n"`
	}

	ImageResponse struct {
		Data []struct {
			Url           string `json:"url"`
			B64Json       string `json:"b64_json"`
			RevisedPrompt string `json:"revised_prompt"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
)
