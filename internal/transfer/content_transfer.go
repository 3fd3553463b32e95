package transfer

type GenerateRequest struct {
	Topic    string `json:"topic"`
	Platform string `json:"platform"`
	Tone     string `json:"tone"`
	Context  string `json:"context"`
}

type ResearchRequest struct {
	Query  string `json:"query"`
	Market string `json:"market"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
