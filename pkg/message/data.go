package message

import (
	"encoding/json"
	"fmt"
)

const (
	TypeData  = "DataMessage"
	TypeImage = "ImageMessage"

	DefaultRenderType = "data"
)

// DataMessage carries arbitrary JSON data together with a hint on how it
// should be rendered.
type DataMessage struct {
	Base
	Data          interface{}            `json:"data"`
	RenderType    string                 `json:"renderType"`
	RenderOptions map[string]interface{} `json:"renderOptions"`
}

func NewDataMessage(data interface{}, renderType string) *DataMessage {
	if renderType == "" {
		renderType = DefaultRenderType
	}
	return &DataMessage{
		Base:          newBase(TypeData),
		Data:          data,
		RenderType:    renderType,
		RenderOptions: make(map[string]interface{}),
	}
}

// DataMessageFromString parses text as JSON and wraps the result.
func DataMessageFromString(text string) (*DataMessage, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", TypeData, ErrMalformed, err)
	}
	return NewDataMessage(data, ""), nil
}

func DataMessageFromJSON(raw []byte) (*DataMessage, error) {
	m := &DataMessage{RenderType: DefaultRenderType}
	if err := decode(raw, m, &m.Base, TypeData); err != nil {
		return nil, err
	}
	if m.RenderType == "" {
		m.RenderType = DefaultRenderType
	}
	if m.RenderOptions == nil {
		m.RenderOptions = make(map[string]interface{})
	}
	return m, nil
}

// ImageMessage points at an image by url.
type ImageMessage struct {
	Base
	Url string `json:"url"`
}

func NewImageMessage(url string) *ImageMessage {
	return &ImageMessage{Base: newBase(TypeImage), Url: url}
}

func ImageMessageFromJSON(raw []byte) (*ImageMessage, error) {
	m := &ImageMessage{}
	if err := decode(raw, m, &m.Base, TypeImage); err != nil {
		return nil, err
	}
	return m, nil
}
