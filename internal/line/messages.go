package line

// Message is an outbound push message. The concrete types mirror the
// platform wire format, so a []Message marshals directly into the push API
// request body.
type Message interface {
	message()
}

// TextMessage is a plain text push message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextMessage) message() {}

// NewTextMessage builds a TextMessage with the wire type set.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// FlexMessage is a structured presentational message. AltText is shown on
// clients that cannot render the bubble.
type FlexMessage struct {
	Type     string     `json:"type"`
	AltText  string     `json:"altText"`
	Contents FlexBubble `json:"contents"`
}

func (FlexMessage) message() {}

// NewFlexMessage builds a FlexMessage with the wire type set.
func NewFlexMessage(altText string, contents FlexBubble) FlexMessage {
	return FlexMessage{Type: "flex", AltText: altText, Contents: contents}
}

// FlexBubble is the container of a flex message.
type FlexBubble struct {
	Type   string   `json:"type"`
	Body   *FlexBox `json:"body,omitempty"`
	Footer *FlexBox `json:"footer,omitempty"`
}

// FlexBox lays out a list of components vertically or horizontally.
type FlexBox struct {
	Type     string          `json:"type"`
	Layout   string          `json:"layout"`
	Contents []FlexComponent `json:"contents"`
}

// FlexComponent is the closed set of elements a box can contain.
type FlexComponent interface {
	flexComponent()
}

// FlexText renders a text line inside a box.
type FlexText struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
}

func (FlexText) flexComponent() {}

// FlexButton renders an actionable button inside a box.
type FlexButton struct {
	Type   string    `json:"type"`
	Style  string    `json:"style,omitempty"`
	Action URIAction `json:"action"`
}

func (FlexButton) flexComponent() {}

// URIAction opens a link when its button is tapped.
type URIAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URI   string `json:"uri"`
}

// NewBubble builds a bubble with the wire type set.
func NewBubble(body, footer *FlexBox) FlexBubble {
	return FlexBubble{Type: "bubble", Body: body, Footer: footer}
}

// NewBox builds a box with the wire type set.
func NewBox(layout string, contents ...FlexComponent) *FlexBox {
	return &FlexBox{Type: "box", Layout: layout, Contents: contents}
}

// NewURIButton builds a primary-style button with a URI action.
func NewURIButton(style, label, uri string) FlexButton {
	return FlexButton{
		Type:  "button",
		Style: style,
		Action: URIAction{
			Type:  "uri",
			Label: label,
			URI:   uri,
		},
	}
}
