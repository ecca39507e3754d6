package domain

// MessageType defines the type of real-time message.
type MessageType string

const (
	MessageScanEvent MessageType = "scan-event"
	MessageStatus    MessageType = "status"
	MessagePong      MessageType = "pong"
)

// Message is the envelope sent over WebSocket.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// StatusPayload is sent to a viewer right after it connects.
type StatusPayload struct {
	Message string `json:"message"`
}

// NewScanMessage wraps a scan event for broadcast.
func NewScanMessage(event ScanEvent) Message {
	return Message{Type: MessageScanEvent, Payload: event}
}

// NewStatusMessage builds a status message with the given text.
func NewStatusMessage(text string) Message {
	return Message{Type: MessageStatus, Payload: StatusPayload{Message: text}}
}
