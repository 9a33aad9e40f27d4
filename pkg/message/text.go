package message

const (
	TypeText     = "TextMessage"
	TypeError    = "ErrorMessage"
	TypeWarning  = "WarningMessage"
	TypeMarkdown = "MarkdownMessage"
	TypeDebug    = "DebugMessage"
)

// TextMessage is plain text.
type TextMessage struct {
	Base
	Text string `json:"text"`
}

func NewTextMessage(text string) *TextMessage {
	return &TextMessage{Base: newBase(TypeText), Text: text}
}

func TextMessageFromJSON(raw []byte) (*TextMessage, error) {
	m := &TextMessage{}
	if err := decode(raw, m, &m.Base, TypeText); err != nil {
		return nil, err
	}
	return m, nil
}

// ErrorMessage carries the text of a failure. The originating error is kept
// when the message was built from one but is not serialized.
type ErrorMessage struct {
	Base
	Text string `json:"text"`
	Err  error  `json:"-"`
}

func NewErrorMessage(err error) *ErrorMessage {
	m := &ErrorMessage{Base: newBase(TypeError), Err: err}
	if err != nil {
		m.Text = err.Error()
	}
	return m
}

// NewErrorMessageFromString builds an error message from bare text.
func NewErrorMessageFromString(text string) *ErrorMessage {
	return &ErrorMessage{Base: newBase(TypeError), Text: text}
}

func (m *ErrorMessage) Error() string {
	return m.Text
}

func ErrorMessageFromJSON(raw []byte) (*ErrorMessage, error) {
	m := &ErrorMessage{}
	if err := decode(raw, m, &m.Base, TypeError); err != nil {
		return nil, err
	}
	return m, nil
}

type WarningMessage struct {
	Base
	Text string `json:"text"`
}

func NewWarningMessage(text string) *WarningMessage {
	return &WarningMessage{Base: newBase(TypeWarning), Text: text}
}

func WarningMessageFromJSON(raw []byte) (*WarningMessage, error) {
	m := &WarningMessage{}
	if err := decode(raw, m, &m.Base, TypeWarning); err != nil {
		return nil, err
	}
	return m, nil
}

type MarkdownMessage struct {
	Base
	Text string `json:"text"`
}

func NewMarkdownMessage(text string) *MarkdownMessage {
	return &MarkdownMessage{Base: newBase(TypeMarkdown), Text: text}
}

func MarkdownMessageFromJSON(raw []byte) (*MarkdownMessage, error) {
	m := &MarkdownMessage{}
	if err := decode(raw, m, &m.Base, TypeMarkdown); err != nil {
		return nil, err
	}
	return m, nil
}

// DebugMessage is diagnostic text a UI may hide by default.
type DebugMessage struct {
	Base
	Text string `json:"text"`
}

func NewDebugMessage(text string) *DebugMessage {
	return &DebugMessage{Base: newBase(TypeDebug), Text: text}
}

func DebugMessageFromJSON(raw []byte) (*DebugMessage, error) {
	m := &DebugMessage{}
	if err := decode(raw, m, &m.Base, TypeDebug); err != nil {
		return nil, err
	}
	return m, nil
}
