package domain

import "encoding/json"

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

func (r ChatRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

const DefaultReasoningEffort = "medium"

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type ChatRequest struct {
	Messages        []ChatMessage `json:"messages"`
	ReasoningEffort string        `json:"reasoningEffort,omitempty"`
	Stream          bool          `json:"stream,omitempty"`
}

// ChatCompletion is the part of a chat-completion response the analysis flow reads.
type ChatCompletion struct {
	ID      string       `json:"id,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
	Usage   *ChatUsage   `json:"usage,omitempty"`
}

type ChatChoice struct {
	Index        int       `json:"index"`
	Message      ChatReply `json:"message"`
	FinishReason string    `json:"finish_reason,omitempty"`
}

// ChatReply keeps content raw: providers return either a string or structured parts.
type ChatReply struct {
	Role    string          `json:"role,omitempty"`
	Content json.RawMessage `json:"content"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstContent returns choices[0].message.content as text. Non-string content is
// returned as its JSON encoding.
func (c ChatCompletion) FirstContent() (string, bool) {
	if len(c.Choices) == 0 || len(c.Choices[0].Message.Content) == 0 {
		return "", false
	}
	raw := c.Choices[0].Message.Content
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}
	if string(raw) == "null" {
		return "", false
	}
	return string(raw), true
}
