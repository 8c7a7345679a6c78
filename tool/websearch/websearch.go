package websearch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/meshagent-community/linkedin-agent/utils/httpUtils"
)

var log = logger.New("websearch")

const apiHost = "customsearch.googleapis.com"

type searchTool struct {
	apiURL         string
	apiKey         string
	searchEngineID string
}

// New builds the web-search tool for the drafting agent. Keys come from
// the credentials table (google_api_key, google_search_engine_id).
func New(credentialService model.CredentialService) tool.Tool {
	apiKey, err := credentialService.GetKey("google_api_key")
	if err != nil {
		log.Warn().Msg("google_api_key not found")
	}

	searchEngineID, err := credentialService.GetKey("google_search_engine_id")
	if err != nil {
		log.Warn().Msg("google_search_engine_id not found")
	}

	return &searchTool{
		apiURL:         "https://" + apiHost + "/customsearch/v1",
		apiKey:         apiKey,
		searchEngineID: searchEngineID,
	}
}

// NewWithURL is used by tests to point the tool at a fake endpoint.
func NewWithURL(apiURL, apiKey, searchEngineID string) tool.Tool {
	return &searchTool{
		apiURL:         apiURL,
		apiKey:         apiKey,
		searchEngineID: searchEngineID,
	}
}

func (t *searchTool) Name() string  { return "web-search" }
func (t *searchTool) Title() string { return "web search" }
func (t *searchTool) Description() string {
	return "searches the web and returns titles, links and snippets"
}

func (t *searchTool) InputSchema() map[string]any {
	return tool.ObjectSchema(
		[]string{"query"},
		map[string]any{
			"query": map[string]any{"type": "string"},
		},
	)
}

func (t *searchTool) Execute(ctx tool.Context, args map[string]any) (tool.Response, error) {
	query, _ := args["query"].(string)

	requestUrl, err := url.Parse(t.apiURL)
	if err != nil {
		return tool.Response{}, err
	}

	q := requestUrl.Query()
	q.Set("key", t.apiKey)
	q.Set("cx", t.searchEngineID)
	q.Set("q", query)
	q.Set("num", "7")
	q.Set("safe", "active")
	q.Set("fields", "queries/request/searchTerms,searchInformation/formattedTotalResults,items(title, link, displayLink, snippet)")

	requestUrl.RawQuery = q.Encode()

	var response Response
	err = httpUtils.GetRequest(requestUrl.String(), &response)
	if err != nil {
		log.Err(err).
			Str("guid", ctx.GUID).
			Str("query", query).
			Msg("Error while requesting web search")
		return tool.FailureResponse(fmt.Sprintf("Web search failed: %v", err)), nil
	}

	if len(response.Items) == 0 {
		return tool.TextResponse("No results found."), nil
	}

	var sb strings.Builder
	for i, item := range response.Items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s (%s)", item.Title, item.Link))
		if item.Snippet != "" {
			sb.WriteString(": ")
			sb.WriteString(item.Snippet)
		}
	}

	return tool.TextResponse(sb.String()), nil
}
