package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRoundTrip(t *testing.T) {
	p := New("", "movies")
	assert.Equal(t, "New Project", p.Name)

	graph := NewGraphDataset("", "")
	graph.Graph.Nodes = append(graph.Graph.Nodes, GraphNode{Id: "a", Label: "Person"}, GraphNode{Id: "b"})
	graph.Graph.Edges = append(graph.Graph.Edges, GraphEdge{SourceId: "a", TargetId: "b", Label: "KNOWS"})
	cypher := NewCypherDataset("actors", "")
	cypher.Cypher = "MATCH (p:Person) RETURN p"
	path := NewPathDataset("", "")
	path.PathQuery = []string{"Person", "ACTED_IN", "Movie"}
	p.Datasets = append(p.Datasets, graph, cypher, path)

	exploration := NewExploration("", "")
	exploration.Dataset = cypher
	p.Explorations = append(p.Explorations, exploration, NewExploration("empty", ""))
	p.Perspectives = append(p.Perspectives, NewPerspective("", ""))

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	restored, err := FromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, p.Id, restored.Id)
	assert.Equal(t, "movies", restored.Description)
	require.Len(t, restored.Datasets, 3)

	g, ok := restored.Datasets[0].(*GraphDataset)
	require.True(t, ok)
	assert.Equal(t, graph.Graph, g.Graph)
	assert.Equal(t, "New Graph Dataset", g.Name)

	c, ok := restored.GetDatasetById(cypher.Id).(*CypherDataset)
	require.True(t, ok)
	assert.Equal(t, cypher.Cypher, c.Cypher)

	pd, ok := restored.Datasets[2].(*PathDataset)
	require.True(t, ok)
	assert.Equal(t, path.PathQuery, pd.PathQuery)

	require.Len(t, restored.Explorations, 2)
	assert.Equal(t, "New Exploration", restored.Explorations[0].Name)
	assert.Equal(t, cypher.Id, restored.Explorations[0].Dataset.GetId())
	assert.Nil(t, restored.Explorations[1].Dataset)

	require.Len(t, restored.Perspectives, 1)
	assert.Equal(t, "New Perspective", restored.Perspectives[0].Name)
	assert.Nil(t, restored.GetDatasetById("missing"))
}

func TestGraphEncodingDoesNotAlias(t *testing.T) {
	d := NewGraphDataset("g", "")
	d.Graph.Nodes = append(d.Graph.Nodes, GraphNode{Id: "a", Data: map[string]interface{}{"age": 42}})

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	d.Graph.Nodes[0].Data["age"] = 43

	restored, err := DatasetFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(42), restored.(*GraphDataset).Graph.Nodes[0].Data["age"])
}

func TestDatasetFromJSONErrors(t *testing.T) {
	_, err := DatasetFromJSON([]byte(`{}`))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = DatasetFromJSON([]byte(`{"typeName":"TableDataset"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = FromJSON(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestDatasetFromJSONAssignsMissingId(t *testing.T) {
	d, err := DatasetFromJSON([]byte(`{"typeName":"PathDataset","name":"p"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, d.GetId())
	assert.Equal(t, "p", d.GetName())
	assert.Equal(t, []string{}, d.(*PathDataset).PathQuery)
}

func TestConnection(t *testing.T) {
	c := DefaultConnection()
	require.NoError(t, c.Validate())
	assert.Equal(t, "bolt://localhost:7687", c.URI())

	c.Protocol = ""
	c.Host = "db.internal"
	c.Port = 7688
	assert.Equal(t, "bolt://db.internal:7688", c.URI())

	assert.Error(t, Neo4jConnection{Port: 7687}.Validate())
	assert.Error(t, Neo4jConnection{Host: "x", Port: 70000}.Validate())
}
