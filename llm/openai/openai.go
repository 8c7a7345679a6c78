package openai

import (
	"errors"
	"fmt"
	"os"

	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/meshagent-community/linkedin-agent/utils/httpUtils"
)

var log = logger.New("openai")

// Adapter drives OpenAI chat completions with function tools plus the
// images endpoint. It is the LLM behind the drafting agent.
type Adapter struct {
	apiKey    string
	chatURL   string
	imagesURL string
	chatModel string
}

func New(credentialService model.CredentialService) *Adapter {
	apiKey, err := credentialService.GetKey("openai_api_key")
	if err != nil {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Warn().Msg("openai_api_key not found")
		}
	}

	chatModel, err := credentialService.GetKey("openai_chat_model")
	if err != nil {
		chatModel = DefaultModel
	}

	return &Adapter{
		apiKey:    apiKey,
		chatURL:   ChatCompletionsUrl,
		imagesURL: ImageGenerationsUrl,
		chatModel: chatModel,
	}
}

// NewWithURL is used by tests to point the adapter at a fake endpoint.
func NewWithURL(chatURL, imagesURL, apiKey, chatModel string) *Adapter {
	if chatModel == "" {
		chatModel = DefaultModel
	}
	return &Adapter{
		apiKey:    apiKey,
		chatURL:   chatURL,
		imagesURL: imagesURL,
		chatModel: chatModel,
	}
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + a.apiKey,
	}
}

// Chat sends the conversation and returns the assistant message, which
// may carry tool calls instead of content.
func (a *Adapter) Chat(messages []Message, tools []ToolDefinition) (*Message, error) {
	request := ChatRequest{
		Model:       a.chatModel,
		Messages:    messages,
		Tools:       tools,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}

	var response ChatResponse
	err := httpUtils.PostRequest(a.chatURL, a.headers(), &request, &response, nil)
	if err != nil {
		return nil, err
	}

	if response.Error.Message != "" {
		return nil, fmt.Errorf("openai: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return nil, errors.New("openai: no choices returned")
	}

	message := response.Choices[0].Message
	return &message, nil
}

// GenerateImage creates one image and returns its URL.
func (a *Adapter) GenerateImage(imageModel, prompt string) (string, error) {
	request := ImageRequest{
		Model:  imageModel,
		Prompt: prompt,
		N:      1,
	}

	var response ImageResponse
	err := httpUtils.PostRequest(a.imagesURL, a.headers(), &request, &response, nil)
	if err != nil {
		return "", err
	}

	if response.Error.Message != "" {
		return "", fmt.Errorf("openai: %s", response.Error.Message)
	}

	if len(response.Data) == 0 {
		return "", errors.New("openai: no image returned")
	}

	return response.Data[0].Url, nil
}
