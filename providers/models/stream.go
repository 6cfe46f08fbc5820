package models

// StreamResponse is one chunk of a streamed chat completion.
type StreamResponse struct {
	Content string
	Done    bool
	Err     error
}

// AIError is the error envelope returned by provider APIs.
type AIError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
