package dto

// ChatMessage is a single role-tagged message; content is forwarded
// upstream uninterpreted.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound proxy body. Temperature defaults to 0.7 and
// stream to false when absent.
type ChatRequest struct {
	SystemPrompt string        `json:"systemPrompt"`
	Messages     []ChatMessage `json:"messages"`
	Temperature  *float64      `json:"temperature"`
	Stream       bool          `json:"stream"`
}

// ChatResponse is the buffered proxy reply.
type ChatResponse struct {
	Content string `json:"content"`
}
