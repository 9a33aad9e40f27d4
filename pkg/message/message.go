package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const TypeMessage = "Message"

var (
	ErrEmptyInput  = errors.New("json is empty")
	ErrUnknownType = errors.New("unknown message type")
	ErrMalformed   = errors.New("malformed message json")
)

// Message is the capability every notebook payload shares: identity,
// output role, correlation and a JSON encoding.
type Message interface {
	GetId() string
	GetTypeName() string
	GetIsOutput() bool
	SetIsOutput(isOutput bool)
	GetCorrelationId() string
	SetCorrelationId(id string)
	GetAnnotations() map[string]interface{}
}

// Base holds the fields common to all variants. Used on its own it is the
// plain "Message" variant.
type Base struct {
	Id            string                 `json:"id"`
	TypeName      string                 `json:"typeName"`
	Annotations   map[string]interface{} `json:"annotations"`
	IsOutput      bool                   `json:"isOutput"`
	CorrelationId string                 `json:"correlationId,omitempty"`
}

// NewId returns a fresh message identifier.
func NewId() string {
	return uuid.NewString()
}

func newBase(typeName string) Base {
	return Base{
		Id:          NewId(),
		TypeName:    typeName,
		Annotations: make(map[string]interface{}),
	}
}

// NewMessage creates a payload-less message.
func NewMessage() *Base {
	b := newBase(TypeMessage)
	return &b
}

func (b *Base) GetId() string {
	return b.Id
}

func (b *Base) GetTypeName() string {
	return b.TypeName
}

func (b *Base) GetIsOutput() bool {
	return b.IsOutput
}

func (b *Base) SetIsOutput(isOutput bool) {
	b.IsOutput = isOutput
}

func (b *Base) GetCorrelationId() string {
	return b.CorrelationId
}

func (b *Base) SetCorrelationId(id string) {
	b.CorrelationId = id
}

func (b *Base) GetAnnotations() map[string]interface{} {
	return b.Annotations
}

// normalize applies the decode defaults: a missing id gets a fresh one, a
// missing annotation map gets its own empty map, and the tag is pinned.
func (b *Base) normalize(typeName string) {
	if b.Id == "" {
		b.Id = NewId()
	}
	if b.Annotations == nil {
		b.Annotations = make(map[string]interface{})
	}
	b.TypeName = typeName
}

// MessageFromJSON rebuilds a plain message.
func MessageFromJSON(raw []byte) (*Base, error) {
	m := &Base{}
	if err := decode(raw, m, m, TypeMessage); err != nil {
		return nil, err
	}
	return m, nil
}

// IsEmptyJSON reports whether raw is absent, null or an object without keys.
func IsEmptyJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	if trimmed[0] != '{' {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return false
	}
	return len(probe) == 0
}

// decode unmarshals raw over target, which the caller has already filled
// with the variant's payload defaults, then normalizes the base fields.
func decode(raw []byte, target interface{}, base *Base, typeName string) error {
	if IsEmptyJSON(raw) {
		return fmt.Errorf("%s: %w", typeName, ErrEmptyInput)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%s: %w: %v", typeName, ErrMalformed, err)
	}
	base.normalize(typeName)
	return nil
}
