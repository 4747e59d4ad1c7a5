package commands

import (
	"context"
	"fmt"

	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/config"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/logging/logger"
	"github.com/ncobase/esdsl/query"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command
func NewSearchCommand(configFile *string) *cobra.Command {
	var (
		index string
		page  int
		size  int
		first bool
		count bool
	)

	cmd := &cobra.Command{
		Use:   "search [file]",
		Short: "Run a query document against the configured engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRequest(cmd, args)
			if err != nil {
				return err
			}
			if index != "" {
				r.Index = index
			}

			cfg, err := config.LoadConfig(*configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cleanup, err := logger.New(cfg.Logger)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer cleanup()

			exec, err := search.NewExecutorFromConfig(cfg.Search)
			if err != nil {
				return err
			}

			out, err := runSearch(cmd.Context(), exec, r, searchMode{page: page, size: size, first: first, count: count})
			if err != nil {
				return err
			}
			data, err := compiler.Render(out, true)
			if err != nil {
				return fmt.Errorf("failed to render: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "override the index")
	cmd.Flags().IntVar(&page, "page", 0, "fetch one page, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "page size")
	cmd.Flags().BoolVar(&first, "first", false, "return the first hit only")
	cmd.Flags().BoolVar(&count, "count", false, "return the number of matching documents")
	cmd.MarkFlagsMutuallyExclusive("first", "count", "page")
	return cmd
}

type searchMode struct {
	page, size   int
	first, count bool
}

func runSearch(ctx context.Context, exec *search.Executor, r *query.Request, mode searchMode) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case mode.count:
		n, err := exec.Count(ctx, r)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": n}, nil
	case mode.first:
		return exec.First(ctx, r)
	case mode.page > 0:
		return exec.Paginate(ctx, r, mode.page, mode.size)
	default:
		if mode.size > 0 {
			r.Size = &mode.size
		}
		return exec.Get(ctx, r)
	}
}
