// Package linkedin talks to the LinkedIn Posts API on behalf of a
// single member. LinkedIn versions its REST API with a monthly
// "LinkedIn-Version" header and retires old months without much grace,
// so the client probes from the current month downward until one is
// accepted and remembers the winner for the rest of the process.
package linkedin

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/utils"
	"github.com/meshagent-community/linkedin-agent/utils/httpUtils"
	"github.com/rs/zerolog"
)

var (
	versionCacheMu sync.Mutex
	versionCache   string // first month LinkedIn accepted, shared by all clients
)

type Client struct {
	token    string
	versions []string
	version  string

	postsEndpoint    string
	userinfoEndpoint string
	httpClient       *http.Client
	log              zerolog.Logger

	PersonID  string
	AuthorUrn string
	FirstName string
	LastName  string
}

type Options struct {
	// AccessToken overrides LINKEDIN_ACCESS_TOKEN.
	AccessToken string

	// StartVersion is the YYYYMM month the probe ladder starts from.
	// Defaults to the current UTC month.
	StartVersion string

	// BaseURL replaces the api.linkedin.com prefix, for tests.
	BaseURL string

	HTTPClient *http.Client
}

func NewClient(opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}

	token := opts.AccessToken
	if token == "" {
		token = os.Getenv("LINKEDIN_ACCESS_TOKEN")
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpUtils.DefaultHttpClient
	}

	client := &Client{
		token:            token,
		versions:         versionLadder(opts.StartVersion),
		postsEndpoint:    PostsEndpoint,
		userinfoEndpoint: UserinfoEndpoint,
		httpClient:       httpClient,
		log:              logger.New("linkedin"),
	}

	if opts.BaseURL != "" {
		client.postsEndpoint = opts.BaseURL + "/rest/posts"
		client.userinfoEndpoint = opts.BaseURL + "/v2/userinfo"
	}

	userinfo, err := client.fetchProfile()
	if err != nil {
		return nil, err
	}

	client.PersonID = userinfo.Sub
	client.AuthorUrn = "urn:li:person:" + userinfo.Sub
	client.FirstName = userinfo.GivenName
	client.LastName = userinfo.FamilyName

	return client, nil
}

// Version is the first LinkedIn-Version month the API accepted. Empty
// until the first successful request.
func (c *Client) Version() string {
	return c.version
}

// Post publishes a text post to the member's feed and returns the URN
// of the created post. With dryRun the payload is logged and nothing is
// sent.
func (c *Client) Post(text, visibility string, dryRun bool) (string, error) {
	if visibility == "" {
		visibility = DefaultVisibility
	}

	payload := PostRequest{
		Author:     c.AuthorUrn,
		Commentary: text,
		Visibility: visibility,
		Distribution: Distribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
		LifecycleState:            "PUBLISHED",
		IsReshareDisabledByAuthor: false,
	}

	if dryRun {
		c.log.Info().
			Interface("payload", payload).
			Msg("Dry run, not posting")
		return "dry_run", nil
	}

	resp, _, err := c.request(http.MethodPost, c.postsEndpoint, nil, &payload)
	if err != nil {
		return "", err
	}

	return resp.Header.Get(RestliIDHeader), nil
}

// ReadLatest fetches the member's most recently modified posts. A nil
// slice without error means the token lacks the r_member_social read
// scope.
func (c *Client) ReadLatest(count int) ([]PostElement, error) {
	if count < 1 {
		count = 1
	}

	params := url.Values{}
	params.Set("q", "author")
	params.Set("author", c.AuthorUrn)
	params.Set("count", strconv.Itoa(count))
	params.Set("sortBy", "LAST_MODIFIED")

	_, body, err := c.request(http.MethodGet, c.postsEndpoint, params, nil)
	if err != nil {
		var httpError *utils.HttpError
		if errors.As(err, &httpError) && httpError.StatusCode == http.StatusForbidden {
			c.log.Warn().Msg("403 - token lacks r_member_social; read scope restricted")
			return nil, nil
		}
		return nil, err
	}

	var finderResponse FinderResponse
	if err := json.Unmarshal(body, &finderResponse); err != nil {
		return nil, err
	}

	return finderResponse.Elements, nil
}

func (c *Client) fetchProfile() (*Userinfo, error) {
	_, body, err := c.request(http.MethodGet, c.userinfoEndpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var userinfo Userinfo
	if err := json.Unmarshal(body, &userinfo); err != nil {
		return nil, err
	}

	return &userinfo, nil
}

// request walks the version ladder until LinkedIn accepts a month. The
// response body is fully read and returned; a non-2xx status that is
// not a version rejection maps to utils.HttpError.
func (c *Client) request(method, endpoint string, params url.Values, payload any) (*http.Response, []byte, error) {
	var lastErr error

	for _, version := range c.versionLadderWithCache() {
		var reqBody io.Reader
		if payload != nil {
			jsonData, err := json.Marshal(payload)
			if err != nil {
				return nil, nil, err
			}
			reqBody = bytes.NewBuffer(jsonData)
		}

		requestURL := endpoint
		if len(params) > 0 {
			requestURL += "?" + params.Encode()
		}

		req, err := http.NewRequest(method, requestURL, reqBody)
		if err != nil {
			return nil, nil, err
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("LinkedIn-Version", version)
		req.Header.Set("X-Restli-Protocol-Version", RestliProtocolVersion)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.log.Debug().
			Str("method", method).
			Str("url", requestURL).
			Str("linkedin_version", version).
			Send()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized && bytes.Contains(body, []byte("LX401_Expired_Token")) {
			return nil, nil, ErrExpiredToken
		}

		if isVersionRejection(resp.StatusCode, body) {
			lastErr = &utils.HttpError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
			}
			c.log.Debug().
				Str("linkedin_version", version).
				Int("status_code", resp.StatusCode).
				Msg("Version rejected")
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, nil, &utils.HttpError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
			}
		}

		versionCacheMu.Lock()
		versionCache = version
		versionCacheMu.Unlock()
		c.version = version

		return resp, body, nil
	}

	return nil, nil, &VersionError{
		Attempted: c.versions,
		Last:      lastErr,
	}
}

func (c *Client) versionLadderWithCache() []string {
	versionCacheMu.Lock()
	cached := versionCache
	versionCacheMu.Unlock()

	if cached == "" {
		return c.versions
	}

	ladder := make([]string, 0, len(c.versions)+1)
	ladder = append(ladder, cached)
	for _, version := range c.versions {
		if version != cached {
			ladder = append(ladder, version)
		}
	}
	return ladder
}

func versionLadder(startVersion string) []string {
	if lock := os.Getenv("LINKEDIN_VERSION_LOCK"); lock != "" {
		return []string{lock}
	}

	start := time.Now().UTC()
	if startVersion != "" {
		parsed, err := time.Parse("200601", startVersion)
		if err == nil {
			start = parsed
		}
	}

	// Normalized to the first of the month so AddDate cannot skip a
	// short month.
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	versions := make([]string, 0, MaxLookback+1)
	for i := 0; i <= MaxLookback; i++ {
		versions = append(versions, start.AddDate(0, -i, 0).Format("200601"))
	}
	return versions
}

func isVersionRejection(statusCode int, body []byte) bool {
	switch statusCode {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUpgradeRequired:
		return bytes.Contains(bytes.ToLower(body), []byte("version"))
	}
	return false
}
