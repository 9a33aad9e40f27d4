package message

import "strings"

const (
	TypeCode    = "CodeMessage"
	TypeCommand = "CommandMessage"
	TypeCypher  = "CypherMessage"

	DefaultLanguage      = "javascript"
	DefaultVisualization = "grid"
)

// CodeMessage is source code in a given language.
type CodeMessage struct {
	Base
	Code     string `json:"code"`
	Language string `json:"language"`
}

// NewCodeMessage creates a code message; an empty language falls back to
// DefaultLanguage.
func NewCodeMessage(code, language string) *CodeMessage {
	if language == "" {
		language = DefaultLanguage
	}
	return &CodeMessage{Base: newBase(TypeCode), Code: code, Language: language}
}

func CodeMessageFromJSON(raw []byte) (*CodeMessage, error) {
	m := &CodeMessage{Language: DefaultLanguage}
	if err := decode(raw, m, &m.Base, TypeCode); err != nil {
		return nil, err
	}
	return m, nil
}

// CommandMessage is a named command with positional arguments.
type CommandMessage struct {
	Base
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

func NewCommandMessage(command string, args ...string) *CommandMessage {
	if args == nil {
		args = []string{}
	}
	return &CommandMessage{Base: newBase(TypeCommand), Command: command, Args: args}
}

func CommandMessageFromJSON(raw []byte) (*CommandMessage, error) {
	m := &CommandMessage{}
	if err := decode(raw, m, &m.Base, TypeCommand); err != nil {
		return nil, err
	}
	if m.Args == nil {
		m.Args = []string{}
	}
	return m, nil
}

// String renders the command the way it is typed: "!name arg1 arg2".
func (m *CommandMessage) String() string {
	return "!" + m.Command + " " + strings.Join(m.Args, " ")
}

// CypherMessage is a graph query together with how its result should be
// shown and which database it targets.
type CypherMessage struct {
	Base
	Query         string `json:"query"`
	Visualization string `json:"visualization"`
	Database      string `json:"database,omitempty"`
}

func NewCypherMessage(query, visualization string) *CypherMessage {
	if visualization == "" {
		visualization = DefaultVisualization
	}
	return &CypherMessage{Base: newBase(TypeCypher), Query: query, Visualization: visualization}
}

func CypherMessageFromJSON(raw []byte) (*CypherMessage, error) {
	m := &CypherMessage{Visualization: DefaultVisualization}
	if err := decode(raw, m, &m.Base, TypeCypher); err != nil {
		return nil, err
	}
	return m, nil
}
