package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harsh2563/flagright-relgraph/internal/config"
	"github.com/Harsh2563/flagright-relgraph/internal/logging"
	"github.com/Harsh2563/flagright-relgraph/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "relgraph",
		Short:         "Explore user and transaction relationship graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringP("output", "o", formatJSON, "output format: json or yaml")

	root.AddCommand(newUserCmd(), newTransactionCmd(), newPathCmd())
	return root
}

func newUserCmd() *cobra.Command {
	var center string

	cmd := &cobra.Command{
		Use:   "user <userId> [userId...]",
		Short: "Build the relationship graph around one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExplorer(cmd, func(ctx context.Context, svc *service.ExplorerService) (any, error) {
				if len(args) == 1 && center == "" {
					return svc.UserGraph(ctx, args[0])
				}
				return svc.UserGraphs(ctx, service.UserGraphRequest{Anchors: args, Center: center})
			})
		},
	}
	cmd.Flags().StringVar(&center, "center", "", "user id to place at the center of a multi-user graph")
	return cmd
}

func newTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "transaction <transactionId>",
		Aliases: []string{"tx"},
		Short:   "Build the relationship graph around a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExplorer(cmd, func(ctx context.Context, svc *service.ExplorerService) (any, error) {
				return svc.TransactionGraph(ctx, args[0])
			})
		},
	}
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <sourceUserId> <targetUserId>",
		Short: "Resolve and order the shortest path between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExplorer(cmd, func(ctx context.Context, svc *service.ExplorerService) (any, error) {
				return svc.Path(ctx, service.PathRequest{SourceUserID: args[0], TargetUserID: args[1]})
			})
		},
	}
}

// withExplorer loads configuration from the command's flags, opens the
// configured source, runs fn and prints its result.
func withExplorer(cmd *cobra.Command, fn func(context.Context, *service.ExplorerService) (any, error)) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unsupported output format %q", format)
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging)

	source, closeSource, err := service.OpenSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.Source, err)
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			logger.Warn("closing relationship source failed", "error", err)
		}
	}()

	svc := service.NewExplorerService(source, logger, nil, cfg.Upstream.MaxConcurrency)
	result, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), format, result)
}
