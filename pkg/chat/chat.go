package chat

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is a single message in an LLM conversation. The shape
// matches the OpenAI-style chat APIs all supported providers speak.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System is shorthand for a system-role message.
func System(content string) ChatMessage {
	return ChatMessage{Role: ChatRoleSystem, Content: content}
}

// User is shorthand for a user-role message.
func User(content string) ChatMessage {
	return ChatMessage{Role: ChatRoleUser, Content: content}
}
