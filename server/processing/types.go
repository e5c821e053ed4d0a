// Package processing turns a chat message into a display-ready reply:
// it relays the message upstream and sanitizes the completion.
package processing

// Request is the body of a chatbot request. Text is forwarded uninspected;
// an empty value reaches the upstream as is.
type Request struct {
	Text string `json:"text"`
}

// Response is the body of a successful chatbot reply. BotResponse is
// HTML-escaped and possibly wrapped in a preformatted code block.
type Response struct {
	BotResponse string `json:"botResponse"`
}
