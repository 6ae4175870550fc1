package service

import (
	"context"
	"fmt"

	"github.com/Harsh2563/flagright-relgraph/internal/config"
	"github.com/Harsh2563/flagright-relgraph/internal/domain"
	"github.com/Harsh2563/flagright-relgraph/internal/graph"
	"github.com/Harsh2563/flagright-relgraph/internal/repository"
	"github.com/Harsh2563/flagright-relgraph/internal/upstream"
)

// Source answers relationship queries. upstream.Client satisfies it directly;
// the Neo4j repository is adapted by NewGraphSource.
type Source interface {
	UserRelationships(ctx context.Context, userID string) ([]domain.UserRelationshipResponse, error)
	TransactionRelationships(ctx context.Context, txID string) (domain.TransactionRelationshipResponse, error)
	ShortestPath(ctx context.Context, sourceUserID, targetUserID string) (domain.ShortestPathResponse, error)
	Ping(ctx context.Context) error
}

// NewGraphSource exposes a repository as a Source.
func NewGraphSource(repo *repository.Repository) Source {
	return graphSource{repo: repo}
}

type graphSource struct {
	repo *repository.Repository
}

func (s graphSource) UserRelationships(ctx context.Context, userID string) ([]domain.UserRelationshipResponse, error) {
	resp, err := s.repo.UserRelationships(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []domain.UserRelationshipResponse{resp}, nil
}

func (s graphSource) TransactionRelationships(ctx context.Context, txID string) (domain.TransactionRelationshipResponse, error) {
	return s.repo.TransactionRelationships(ctx, txID)
}

func (s graphSource) ShortestPath(ctx context.Context, sourceUserID, targetUserID string) (domain.ShortestPathResponse, error) {
	return s.repo.ShortestPath(ctx, sourceUserID, targetUserID)
}

func (s graphSource) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// OpenSource builds the Source selected by cfg.Source. The returned close
// function releases the underlying connections and is never nil.
func OpenSource(ctx context.Context, cfg config.Config) (Source, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Source {
	case config.SourceGraph:
		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
			QueryTimeout:   cfg.Upstream.Timeout,
		})
		if err != nil {
			return nil, noop, err
		}
		return NewGraphSource(repository.New(client)), client.Close, nil

	case config.SourceAPI, "":
		client, err := upstream.New(upstream.Options{
			BaseURL:   cfg.Upstream.BaseURL,
			Timeout:   cfg.Upstream.Timeout,
			RateLimit: cfg.Upstream.RateLimit,
			Burst:     cfg.Upstream.Burst,
		})
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown relationship source %q", cfg.Source)
	}
}
