// Package project groups notebooks' surrounding containers: projects with
// their explorations, perspectives and datasets.
package project

import (
	"encoding/json"
	"fmt"

	"notebook-core/pkg/message"
)

const (
	TypeProject     = "Project"
	TypeExploration = "Exploration"
	TypePerspective = "Perspective"
)

// Perspective is a named view on a project.
type Perspective struct {
	TypeName    string `json:"typeName"`
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewPerspective(name, description string) *Perspective {
	if name == "" {
		name = "New Perspective"
	}
	return &Perspective{TypeName: TypePerspective, Id: message.NewId(), Name: name, Description: description}
}

// Exploration is an editable graph, optionally backed by a dataset.
type Exploration struct {
	Id          string
	Name        string
	Description string
	Dataset     Dataset
}

func NewExploration(name, description string) *Exploration {
	if name == "" {
		name = "New Exploration"
	}
	return &Exploration{Id: message.NewId(), Name: name, Description: description}
}

type explorationJSON struct {
	TypeName    string          `json:"typeName"`
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Dataset     json.RawMessage `json:"dataset"`
}

func (e *Exploration) MarshalJSON() ([]byte, error) {
	dataset := json.RawMessage("null")
	if e.Dataset != nil {
		raw, err := json.Marshal(e.Dataset)
		if err != nil {
			return nil, err
		}
		dataset = raw
	}
	return json.Marshal(explorationJSON{
		TypeName:    TypeExploration,
		Id:          e.Id,
		Name:        e.Name,
		Description: e.Description,
		Dataset:     dataset,
	})
}

func (e *Exploration) UnmarshalJSON(raw []byte) error {
	var in explorationJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return err
	}
	e.Id = in.Id
	if e.Id == "" {
		e.Id = message.NewId()
	}
	e.Name = in.Name
	e.Description = in.Description
	e.Dataset = nil
	if !message.IsEmptyJSON(in.Dataset) {
		ds, err := DatasetFromJSON(in.Dataset)
		if err != nil {
			return fmt.Errorf("exploration %s: %w", e.Id, err)
		}
		e.Dataset = ds
	}
	return nil
}

// Project is a collection of explorations, perspectives and datasets.
type Project struct {
	Id           string
	Name         string
	Description  string
	Explorations []*Exploration
	Perspectives []*Perspective
	Datasets     []Dataset
}

func New(name, description string) *Project {
	if name == "" {
		name = "New Project"
	}
	return &Project{
		Id:           message.NewId(),
		Name:         name,
		Description:  description,
		Explorations: []*Exploration{},
		Perspectives: []*Perspective{},
		Datasets:     []Dataset{},
	}
}

// GetDatasetById returns the dataset with the given id, nil if absent.
func (p *Project) GetDatasetById(id string) Dataset {
	for _, d := range p.Datasets {
		if d.GetId() == id {
			return d
		}
	}
	return nil
}

type projectJSON struct {
	TypeName     string            `json:"typeName"`
	Id           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Explorations []*Exploration    `json:"explorations"`
	Perspectives []*Perspective    `json:"perspectives"`
	Datasets     []json.RawMessage `json:"datasets"`
}

func (p *Project) MarshalJSON() ([]byte, error) {
	datasets := make([]json.RawMessage, 0, len(p.Datasets))
	for _, d := range p.Datasets {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, raw)
	}
	explorations := p.Explorations
	if explorations == nil {
		explorations = []*Exploration{}
	}
	perspectives := p.Perspectives
	if perspectives == nil {
		perspectives = []*Perspective{}
	}
	return json.Marshal(projectJSON{
		TypeName:     TypeProject,
		Id:           p.Id,
		Name:         p.Name,
		Description:  p.Description,
		Explorations: explorations,
		Perspectives: perspectives,
		Datasets:     datasets,
	})
}

// FromJSON rebuilds a project; datasets are dispatched on their typeName.
func FromJSON(raw []byte) (*Project, error) {
	if message.IsEmptyJSON(raw) {
		return nil, fmt.Errorf("project: %w", ErrEmptyInput)
	}
	var in projectJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("project json: %w", err)
	}

	p := New(in.Name, in.Description)
	if in.Id != "" {
		p.Id = in.Id
	}
	for _, e := range in.Explorations {
		if e != nil {
			p.Explorations = append(p.Explorations, e)
		}
	}
	for _, v := range in.Perspectives {
		if v == nil {
			continue
		}
		v.TypeName = TypePerspective
		if v.Id == "" {
			v.Id = message.NewId()
		}
		p.Perspectives = append(p.Perspectives, v)
	}
	for i, d := range in.Datasets {
		ds, err := DatasetFromJSON(d)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		p.Datasets = append(p.Datasets, ds)
	}
	return p, nil
}
