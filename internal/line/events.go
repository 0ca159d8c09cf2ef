package line

import (
	"encoding/json"
	"fmt"
)

// EventType classifies an inbound webhook event.
type EventType string

const (
	EventTypeMessage EventType = "message"
)

// MessageType classifies the message payload of a message event.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// Envelope is the webhook request body: an ordered batch of events.
type Envelope struct {
	Events []Event `json:"events"`
}

// ParseEnvelope decodes a webhook body. The events key must be present and
// hold a list; anything else is a malformed request.
func ParseEnvelope(body []byte) (Envelope, error) {
	var raw struct {
		Events *[]Event `json:"events"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, fmt.Errorf("parse webhook body: %w", err)
	}
	if raw.Events == nil {
		return Envelope{}, fmt.Errorf("webhook body has no events list")
	}
	return Envelope{Events: *raw.Events}, nil
}

// Source identifies where an event came from.
type Source struct {
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
}

// Event is one inbound notification. Message is nil unless Type is
// EventTypeMessage with a recognized payload.
type Event struct {
	Type    EventType
	Source  Source
	Message MessageContent
}

// MessageContent is the closed set of message payload kinds. Unknown kinds
// decode to OtherContent so new platform message types never fail the batch.
type MessageContent interface {
	messageContent()
}

// TextContent is a plain text message payload.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) messageContent() {}

// ImageContent carries the platform-assigned content id used to fetch the
// raw image bytes.
type ImageContent struct {
	ID string `json:"id"`
}

func (ImageContent) messageContent() {}

// OtherContent preserves the wire type of an unhandled message kind.
type OtherContent struct {
	Type string
}

func (OtherContent) messageContent() {}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string          `json:"type"`
		Source  Source          `json:"source"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Type = EventType(raw.Type)
	e.Source = raw.Source
	e.Message = nil
	if e.Type != EventTypeMessage || len(raw.Message) == 0 {
		return nil
	}
	content, err := decodeMessageContent(raw.Message)
	if err != nil {
		return err
	}
	e.Message = content
	return nil
}

func decodeMessageContent(data []byte) (MessageContent, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode message payload: %w", err)
	}
	switch MessageType(tag.Type) {
	case MessageTypeText:
		var content TextContent
		if err := json.Unmarshal(data, &content); err != nil {
			return nil, fmt.Errorf("decode text message: %w", err)
		}
		return content, nil
	case MessageTypeImage:
		var content ImageContent
		if err := json.Unmarshal(data, &content); err != nil {
			return nil, fmt.Errorf("decode image message: %w", err)
		}
		return content, nil
	default:
		return OtherContent{Type: tag.Type}, nil
	}
}
