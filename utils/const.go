package utils

const (
	// MaxArticleLength caps webpage text handed to the agent so a single
	// article cannot blow the model's input budget.
	MaxArticleLength = 12000

	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/93.0.0.0 Safari/537.36"
)
