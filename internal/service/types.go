package service

import (
	"github.com/Harsh2563/flagright-relgraph/internal/pathseq"
	"github.com/Harsh2563/flagright-relgraph/internal/relgraph"
)

// UserGraphRequest asks for the relationship graph of one or more anchor users.
type UserGraphRequest struct {
	Anchors []string `validate:"required,min=1,max=25,dive,required"`
	// Center overrides the center node id. When empty and there is a single
	// anchor, the anchor is the center.
	Center string
}

// PathRequest asks for the shortest path between two users.
type PathRequest struct {
	SourceUserID string `validate:"required"`
	TargetUserID string `validate:"required"`
}

// GraphView is a built graph with its summary.
type GraphView struct {
	relgraph.Graph `yaml:",inline"`
	Stats relgraph.Stats `json:"stats" yaml:"stats"`
}

// PathView is a sequenced shortest path with its graph rendering.
type PathView struct {
	pathseq.OrderedPath `yaml:",inline"`
	Length int            `json:"length" yaml:"length"`
	Graph  relgraph.Graph `json:"graph" yaml:"graph"`
}

func newGraphView(g relgraph.Graph) GraphView {
	return GraphView{Graph: g, Stats: g.Stats()}
}
