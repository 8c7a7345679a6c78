package linkedintools

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meshagent-community/linkedin-agent/linkedin"
	"github.com/meshagent-community/linkedin-agent/model"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPostService struct {
	posts []model.Post
}

func (s *memoryPostService) Save(post *model.Post) error {
	s.posts = append(s.posts, *post)
	return nil
}

func (s *memoryPostService) Latest(authorUrn string) (model.Post, error) {
	for i := len(s.posts) - 1; i >= 0; i-- {
		if s.posts[i].AuthorUrn == authorUrn {
			return s.posts[i], nil
		}
	}
	return model.Post{}, model.ErrNotFound
}

func (s *memoryPostService) IsDuplicate(authorUrn, commentary string) (bool, error) {
	latest, err := s.Latest(authorUrn)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return latest.Commentary == commentary, nil
}

func (s *memoryPostService) History(authorUrn string, limit int) ([]model.Post, error) {
	var posts []model.Post
	for i := len(s.posts) - 1; i >= 0 && len(posts) < limit; i-- {
		if s.posts[i].AuthorUrn == authorUrn {
			posts = append(posts, s.posts[i])
		}
	}
	return posts, nil
}

func newTestToolkit(t *testing.T, handler http.HandlerFunc, postService model.PostService) *tool.Toolkit {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewToolkit(postService, func() (*linkedin.Client, error) {
		return linkedin.NewClient(&linkedin.Options{
			AccessToken: "test-token",
			BaseURL:     server.URL,
		})
	})
}

func linkedinAPIStub(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			_ = json.NewEncoder(w).Encode(linkedin.Userinfo{
				Sub:        "AbC123",
				GivenName:  "Ada",
				FamilyName: "Lovelace",
			})
		case "/rest/posts":
			switch r.Method {
			case http.MethodPost:
				w.Header().Set(linkedin.RestliIDHeader, "urn:li:share:99")
				w.WriteHeader(http.StatusCreated)
			case http.MethodGet:
				_ = json.NewEncoder(w).Encode(linkedin.FinderResponse{
					Elements: []linkedin.PostElement{
						{ID: "urn:li:share:99", Commentary: "latest", Visibility: "PUBLIC"},
					},
				})
			}
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestVerifyAuthOK(t *testing.T) {
	toolkit := newTestToolkit(t, linkedinAPIStub(t), &memoryPostService{})

	verifyAuth, found := toolkit.Get("verify-linkedin-auth")
	require.True(t, found)

	response, err := tool.Call(tool.Context{GUID: "test"}, verifyAuth, nil)
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Equal(t, "LinkedIn auth OK – Ada Lovelace", response.Text)
}

func TestVerifyAuthFailureIsText(t *testing.T) {
	toolkit := newTestToolkit(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"LX401_Expired_Token"}`))
	}, &memoryPostService{})

	verifyAuth, _ := toolkit.Get("verify-linkedin-auth")

	response, err := tool.Call(tool.Context{GUID: "test"}, verifyAuth, nil)
	require.NoError(t, err, "auth failures must flow back as text")

	assert.False(t, response.Success)
	assert.Contains(t, response.Text, "LinkedIn auth FAILED")
}

func TestPostTextPublishesAndRecords(t *testing.T) {
	postService := &memoryPostService{}
	toolkit := newTestToolkit(t, linkedinAPIStub(t), postService)

	postText, found := toolkit.Get("post-text-to-linkedin")
	require.True(t, found)

	response, err := tool.Call(tool.Context{GUID: "test"}, postText, map[string]any{
		"post_text": "Hello from Go!",
	})
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Contains(t, response.Text, "urn:li:share:99")
	assert.Contains(t, response.Text, "PUBLIC")

	require.Len(t, postService.posts, 1)
	assert.Equal(t, "Hello from Go!", postService.posts[0].Commentary)
	assert.Equal(t, "urn:li:person:AbC123", postService.posts[0].AuthorUrn)
	assert.NotEmpty(t, postService.posts[0].ID)
}

func TestPostTextSuppressesDuplicate(t *testing.T) {
	postService := &memoryPostService{}
	toolkit := newTestToolkit(t, linkedinAPIStub(t), postService)

	postText, _ := toolkit.Get("post-text-to-linkedin")

	first, err := tool.Call(tool.Context{}, postText, map[string]any{"post_text": "same text"})
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := tool.Call(tool.Context{}, postText, map[string]any{"post_text": "same text"})
	require.NoError(t, err)

	assert.False(t, second.Success)
	assert.Equal(t, "Duplicate post suppressed.", second.Text)
	assert.Len(t, postService.posts, 1)
}

func TestPostTextRequiresArgument(t *testing.T) {
	toolkit := newTestToolkit(t, linkedinAPIStub(t), &memoryPostService{})

	postText, _ := toolkit.Get("post-text-to-linkedin")

	_, err := tool.Call(tool.Context{}, postText, map[string]any{})
	assert.Error(t, err)
}

func TestReadLatestWithoutReadScope(t *testing.T) {
	postService := &memoryPostService{}
	toolkit := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/rest/posts" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Not enough permissions"}`))
			return
		}
		linkedinAPIStub(t)(w, r)
	}, postService)

	postText, _ := toolkit.Get("post-text-to-linkedin")
	published, err := tool.Call(tool.Context{}, postText, map[string]any{"post_text": "Recorded locally"})
	require.NoError(t, err)
	require.True(t, published.Success)

	readLatest, _ := toolkit.Get("read-latest-posts")
	response, err := tool.Call(tool.Context{}, readLatest, map[string]any{"count": 5})
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Contains(t, response.Text, "showing posts published through this service instead")
	assert.Contains(t, response.Text, "urn:li:share:99")
	assert.Contains(t, response.Text, "Recorded locally")
}

func TestReadLatestWithoutReadScopeOrRecordedPosts(t *testing.T) {
	toolkit := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/rest/posts" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Not enough permissions"}`))
			return
		}
		linkedinAPIStub(t)(w, r)
	}, &memoryPostService{})

	readLatest, _ := toolkit.Get("read-latest-posts")
	response, err := tool.Call(tool.Context{}, readLatest, map[string]any{"count": 5})
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Contains(t, response.Text, "cannot read posts")
}

func TestReadLatest(t *testing.T) {
	toolkit := newTestToolkit(t, linkedinAPIStub(t), &memoryPostService{})

	readLatest, found := toolkit.Get("read-latest-posts")
	require.True(t, found)

	response, err := tool.Call(tool.Context{}, readLatest, map[string]any{"count": 1})
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Contains(t, response.Text, "latest")
}
