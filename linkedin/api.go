package linkedin

// https://learn.microsoft.com/en-us/linkedin/marketing/community-management/shares/posts-api

const (
	PostsEndpoint    = "https://api.linkedin.com/rest/posts"
	UserinfoEndpoint = "https://api.linkedin.com/v2/userinfo"

	RestliProtocolVersion = "2.0.0"
	RestliIDHeader        = "x-restli-id"

	DefaultVisibility = "PUBLIC"

	// MaxLookback is how many months the LinkedIn-Version header is
	// probed downward before giving up.
	MaxLookback = 3
)

type (
	Userinfo struct {
		Sub        string `json:"sub"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}

	PostRequest struct {
		Author                    string       `json:"author"`
		Commentary                string       `json:"commentary"`
		Visibility                string       `json:"visibility"`
		Distribution              Distribution `json:"distribution"`
		LifecycleState            string       `json:"lifecycleState"`
		IsReshareDisabledByAuthor bool         `json:"isReshareDisabledByAuthor"`
	}

	Distribution struct {
		FeedDistribution               string   `json:"feedDistribution"`
		TargetEntities                 []string `json:"targetEntities"`
		ThirdPartyDistributionChannels []string `json:"thirdPartyDistributionChannels"`
	}

	FinderResponse struct {
		Elements []PostElement `json:"elements"`
	}

	PostElement struct {
		ID             string `json:"id"`
		Author         string `json:"author"`
		Commentary     string `json:"commentary"`
		Visibility     string `json:"visibility"`
		PublishedAt    int64  `json:"publishedAt"`
		LastModifiedAt int64  `json:"lastModifiedAt"`
	}
)
