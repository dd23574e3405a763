package api

import (
	"context"
	"net/http"
)

// ChatTurn is one exchange in the assistant conversation. Role is "user" or
// "assistant", matching what the backend replays to its model.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type assistantReply struct {
	Message             string     `json:"message"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

// AskAssistant sends one message to the backend assistant. The conversation is
// threaded client-side: callers pass the history from the previous reply and
// keep the returned one for the next turn.
func (c *Client) AskAssistant(ctx context.Context, message string, history []ChatTurn) (string, []ChatTurn, error) {
	if history == nil {
		history = []ChatTurn{}
	}
	payload := map[string]interface{}{
		"message":             message,
		"conversationHistory": history,
	}
	var reply assistantReply
	if err := c.do(ctx, http.MethodPost, "/api/chatbot", nil, payload, &reply); err != nil {
		return "", nil, err
	}
	return reply.Message, reply.ConversationHistory, nil
}
