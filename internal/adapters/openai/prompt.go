package openai

const systemPrompt = "You are a helpful assistant that extracts job application details from email screenshots."

const userPrompt = `From this screenshot, extract:
- Company name
- Job title or position
- Application status (e.g. applied, interview, offer, rejected)
- Any dates mentioned

Respond in JSON format like:
{
  "company": "Example Corp",
  "role": "Software Engineer",
  "status": "Interview",
  "date": "2025-07-15"
}`

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

func buildRequest(model string, maxTokens int, imageURL string) chatRequest {
	return chatRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageRef{URL: imageURL}},
			}},
		},
	}
}
