package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
	"github.com/Harsh2563/flagright-relgraph/internal/metrics"
	"github.com/Harsh2563/flagright-relgraph/internal/pathseq"
	"github.com/Harsh2563/flagright-relgraph/internal/relgraph"
)

// ErrInvalidArgument marks requests rejected before any source call.
var ErrInvalidArgument = errors.New("invalid argument")

// ExplorerService fetches relationship data from a Source and turns it into
// render-ready graphs and ordered paths.
type ExplorerService struct {
	source         Source
	logger         *slog.Logger
	metrics        *metrics.Metrics
	validate       *validator.Validate
	maxConcurrency int
}

// NewExplorerService constructs an ExplorerService. m may be nil.
func NewExplorerService(source Source, logger *slog.Logger, m *metrics.Metrics, maxConcurrency int) *ExplorerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplorerService{
		source:         source,
		logger:         logger.With("component", "explorer"),
		metrics:        m,
		validate:       validator.New(),
		maxConcurrency: maxConcurrency,
	}
}

// UserGraph builds the relationship graph centered on a single user.
func (s *ExplorerService) UserGraph(ctx context.Context, userID string) (GraphView, error) {
	return s.UserGraphs(ctx, UserGraphRequest{Anchors: []string{userID}})
}

// UserGraphs fetches the relationships of every anchor concurrently and builds
// one graph from all responses, in anchor order.
func (s *ExplorerService) UserGraphs(ctx context.Context, req UserGraphRequest) (GraphView, error) {
	req.Anchors = trimAll(req.Anchors)
	req.Center = strings.TrimSpace(req.Center)
	if err := s.check(req); err != nil {
		return GraphView{}, err
	}

	batches, err := fetchAll(ctx, req.Anchors, s.maxConcurrency, func(ctx context.Context, id string) ([]domain.UserRelationshipResponse, error) {
		var out []domain.UserRelationshipResponse
		err := s.observe(ctx, "user_relationships", func() error {
			var err error
			out, err = s.source.UserRelationships(ctx, id)
			return err
		})
		return out, err
	})
	if err != nil {
		return GraphView{}, err
	}

	var responses []domain.UserRelationshipResponse
	for _, batch := range batches {
		responses = append(responses, batch...)
	}

	center := req.Center
	if center == "" && len(req.Anchors) == 1 {
		center = req.Anchors[0]
	}
	if center == "" && len(responses) > 1 {
		s.logger.WarnContext(ctx, "no center supplied, one placeholder center per response",
			"anchors", len(req.Anchors), "responses", len(responses))
		s.metrics.Degraded(metrics.DegradedCenterPlaceholder)
	}

	g := relgraph.BuildUserRelationshipGraph(responses, center)
	s.metrics.ObserveBuild("user", len(g.Nodes))
	s.logger.DebugContext(ctx, "user graph built", "center", center, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return newGraphView(g), nil
}

// TransactionGraph builds the relationship graph centered on a transaction.
func (s *ExplorerService) TransactionGraph(ctx context.Context, txID string) (GraphView, error) {
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return GraphView{}, fmt.Errorf("%w: transaction id is required", ErrInvalidArgument)
	}

	var resp domain.TransactionRelationshipResponse
	err := s.observe(ctx, "transaction_relationships", func() error {
		var err error
		resp, err = s.source.TransactionRelationships(ctx, txID)
		return err
	})
	if err != nil {
		return GraphView{}, err
	}

	g := relgraph.BuildTransactionRelationshipGraph(resp, txID)
	s.metrics.ObserveBuild("transaction", len(g.Nodes))
	return newGraphView(g), nil
}

// Path fetches the shortest path between two users and orders it from source
// to target.
func (s *ExplorerService) Path(ctx context.Context, req PathRequest) (PathView, error) {
	req.SourceUserID = strings.TrimSpace(req.SourceUserID)
	req.TargetUserID = strings.TrimSpace(req.TargetUserID)
	if err := s.check(req); err != nil {
		return PathView{}, err
	}

	var resp domain.ShortestPathResponse
	err := s.observe(ctx, "shortest_path", func() error {
		var err error
		resp, err = s.source.ShortestPath(ctx, req.SourceUserID, req.TargetUserID)
		return err
	})
	if err != nil {
		return PathView{}, err
	}

	var (
		path   domain.Path
		length int
	)
	if resp.Data != nil {
		path, length = resp.Data.Path, resp.Data.Length
	}

	ordered := pathseq.SequencePath(path)
	if len(path.Nodes) > 0 && !ordered.Complete {
		s.logger.WarnContext(ctx, "shortest path sequenced partially",
			"source", req.SourceUserID,
			"target", req.TargetUserID,
			"nodes", len(path.Nodes),
			"sequenced", len(ordered.Nodes),
		)
		s.metrics.Degraded(metrics.DegradedPathIncomplete)
	}
	if len(path.Relationships) > 0 && !ordered.Topology.Simple {
		s.logger.WarnContext(ctx, "shortest path is not a simple chain",
			"cycle", ordered.Topology.HasCycle,
			"branching", ordered.Topology.Branching,
			"components", ordered.Topology.Components,
			"dangling", ordered.Topology.Dangling,
		)
		s.metrics.Degraded(metrics.DegradedPathTopology)
	}

	g := relgraph.FromOrderedPath(ordered)
	s.metrics.ObserveBuild("path", len(g.Nodes))
	return PathView{OrderedPath: ordered, Length: length, Graph: g}, nil
}

// Probe implements the server health contract by pinging the source.
func (s *ExplorerService) Probe(ctx context.Context) error {
	return s.source.Ping(ctx)
}

func (s *ExplorerService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

func (s *ExplorerService) observe(ctx context.Context, operation string, call func() error) error {
	started := time.Now()
	err := call()
	s.metrics.ObserveSource(operation, started, err)
	if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, context.Canceled) {
		s.logger.ErrorContext(ctx, "relationship source call failed", "operation", operation, "error", err)
	}
	return err
}

func trimAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strings.TrimSpace(id))
	}
	return out
}
