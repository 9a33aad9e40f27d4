package message

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Decoder rebuilds one concrete variant from its JSON encoding.
type Decoder func(raw []byte) (Message, error)

func adapt[T Message](fn func([]byte) (T, error)) Decoder {
	return func(raw []byte) (Message, error) {
		m, err := fn(raw)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// decoders is the fixed typeName table. Adding a variant means adding a line here.
var decoders = map[string]Decoder{
	TypeMessage:  adapt(MessageFromJSON),
	TypeText:     adapt(TextMessageFromJSON),
	TypeCode:     adapt(CodeMessageFromJSON),
	TypeCommand:  adapt(CommandMessageFromJSON),
	TypeError:    adapt(ErrorMessageFromJSON),
	TypeWarning:  adapt(WarningMessageFromJSON),
	TypeData:     adapt(DataMessageFromJSON),
	TypeImage:    adapt(ImageMessageFromJSON),
	TypeMarkdown: adapt(MarkdownMessageFromJSON),
	TypeDebug:    adapt(DebugMessageFromJSON),
	TypeCypher:   adapt(CypherMessageFromJSON),
}

// FromJSON reads the typeName tag of raw and hands it to the matching decoder.
func FromJSON(raw []byte) (Message, error) {
	if IsEmptyJSON(raw) {
		return nil, ErrEmptyInput
	}
	var tag struct {
		TypeName string `json:"typeName"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec, ok := decoders[tag.TypeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag.TypeName)
	}
	return dec(raw)
}

// IsRegistered reports whether typeName can be decoded by FromJSON.
func IsRegistered(typeName string) bool {
	_, ok := decoders[typeName]
	return ok
}

// RegisteredTypes returns the known tags in sorted order.
func RegisteredTypes() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func FromString(text string) *TextMessage {
	return NewTextMessage(text)
}

func FromError(err error) *ErrorMessage {
	return NewErrorMessage(err)
}

func FromCommand(name string, args ...string) *CommandMessage {
	return NewCommandMessage(name, args...)
}
