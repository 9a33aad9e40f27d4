package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"notebook-core/pkg/message"
)

const (
	TypeGraphDataset  = "GraphDataset"
	TypeCypherDataset = "CypherDataset"
	TypePathDataset   = "PathDataset"
)

var (
	ErrEmptyInput  = errors.New("cannot decode an empty object")
	ErrUnknownType = errors.New("unknown dataset type")
)

// Dataset is the data an exploration is built on.
type Dataset interface {
	GetId() string
	GetName() string
	GetTypeName() string
}

type DatasetInfo struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TypeName    string `json:"typeName"`
}

func (d *DatasetInfo) GetId() string       { return d.Id }
func (d *DatasetInfo) GetName() string     { return d.Name }
func (d *DatasetInfo) GetTypeName() string { return d.TypeName }

func newInfo(typeName, name, fallback, description string) DatasetInfo {
	if name == "" {
		name = fallback
	}
	return DatasetInfo{Id: message.NewId(), Name: name, Description: description, TypeName: typeName}
}

type GraphNode struct {
	Id    string                 `json:"id"`
	Label string                 `json:"label,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type GraphEdge struct {
	Id       string                 `json:"id,omitempty"`
	SourceId string                 `json:"sourceId"`
	TargetId string                 `json:"targetId"`
	Label    string                 `json:"label,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphDataset holds an in-memory graph.
type GraphDataset struct {
	DatasetInfo
	Graph Graph `json:"graph"`
}

func NewGraphDataset(name, description string) *GraphDataset {
	return &GraphDataset{
		DatasetInfo: newInfo(TypeGraphDataset, name, "New Graph Dataset", description),
		Graph:       Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}},
	}
}

// MarshalJSON encodes a deep copy of the graph so the encoding never aliases
// the live node and edge data.
func (d *GraphDataset) MarshalJSON() ([]byte, error) {
	graph, err := cloneGraph(d.Graph)
	if err != nil {
		return nil, err
	}
	type plain GraphDataset
	return json.Marshal(plain{DatasetInfo: d.DatasetInfo, Graph: graph})
}

func cloneGraph(g Graph) (Graph, error) {
	raw, err := json.Marshal(struct {
		Nodes []GraphNode `json:"nodes"`
		Edges []GraphEdge `json:"edges"`
	}{g.Nodes, g.Edges})
	if err != nil {
		return Graph{}, err
	}
	var out Graph
	if err := json.Unmarshal(raw, &out); err != nil {
		return Graph{}, err
	}
	if out.Nodes == nil {
		out.Nodes = []GraphNode{}
	}
	if out.Edges == nil {
		out.Edges = []GraphEdge{}
	}
	return out, nil
}

// CypherDataset is defined by a Cypher query.
type CypherDataset struct {
	DatasetInfo
	Cypher string `json:"cypher"`
}

func NewCypherDataset(name, description string) *CypherDataset {
	return &CypherDataset{DatasetInfo: newInfo(TypeCypherDataset, name, "New Cypher Dataset", description)}
}

// PathDataset is defined by a path query, one step per element.
type PathDataset struct {
	DatasetInfo
	PathQuery []string `json:"pathQuery"`
}

func NewPathDataset(name, description string) *PathDataset {
	return &PathDataset{
		DatasetInfo: newInfo(TypePathDataset, name, "New Path Dataset", description),
		PathQuery:   []string{},
	}
}

// DatasetFromJSON rebuilds a dataset from its tagged encoding.
func DatasetFromJSON(raw []byte) (Dataset, error) {
	if message.IsEmptyJSON(raw) {
		return nil, ErrEmptyInput
	}
	var tag struct {
		TypeName string `json:"typeName"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("dataset json: %w", err)
	}

	var ds Dataset
	var info *DatasetInfo
	switch tag.TypeName {
	case TypeGraphDataset:
		d := NewGraphDataset("", "")
		ds, info = d, &d.DatasetInfo
	case TypeCypherDataset:
		d := NewCypherDataset("", "")
		ds, info = d, &d.DatasetInfo
	case TypePathDataset:
		d := NewPathDataset("", "")
		ds, info = d, &d.DatasetInfo
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag.TypeName)
	}

	generated := info.Id
	if err := json.Unmarshal(raw, ds); err != nil {
		return nil, fmt.Errorf("%s json: %w", tag.TypeName, err)
	}
	if info.Id == "" {
		info.Id = generated
	}
	if g, ok := ds.(*GraphDataset); ok {
		if g.Graph.Nodes == nil {
			g.Graph.Nodes = []GraphNode{}
		}
		if g.Graph.Edges == nil {
			g.Graph.Edges = []GraphEdge{}
		}
	}
	if p, ok := ds.(*PathDataset); ok && p.PathQuery == nil {
		p.PathQuery = []string{}
	}
	return ds, nil
}
