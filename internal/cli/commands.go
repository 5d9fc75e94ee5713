package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"articlegrip/internal/articles"
	"articlegrip/internal/config"
	"articlegrip/internal/domain"
	"articlegrip/internal/store"
	"articlegrip/internal/ui"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.service()
			target := svc.Path()
			if _, err := os.Stat(target); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", target)
				return nil
			}

			if err := svc.Save(config.DefaultConfig()); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created config: %s\n", target)
			return nil
		},
	}
}

func newPageCmd(opts *options) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "page [n]",
		Short: "Fetch one page and print it",
		Long: "Fetch page n (default 1) without starting the terminal UI and print the\n" +
			"articles that match --filter. An empty page counts as a result here.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := articles.FirstPage
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < articles.FirstPage {
					return fmt.Errorf("invalid page %q: must be a positive integer", args[0])
				}
				page = n
			}

			state, err := fetchPage(cmd.Context(), opts.cfg, page, filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderPageText(state, time.Now()))
			if state.Status == domain.StatusError {
				return fmt.Errorf("page %d: %s", page, state.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only print articles whose title contains this text")
	return cmd
}

// fetchPage runs the list headless until page has settled
func fetchPage(ctx context.Context, cfg *config.Config, page int, filter string) (domain.ViewState, error) {
	// a one-shot fetch has no earlier status to keep
	a, err := newApp(cfg, articles.WithEmptyPageIsSuccess(true))
	if err != nil {
		return domain.ViewState{}, err
	}
	defer a.close()

	if ctx == nil {
		ctx = context.Background()
	}
	// the limiter may delay the request on top of the timeout
	ctx, cancel := context.WithTimeout(ctx, 2*cfg.Source.Timeout()+time.Second)
	defer cancel()

	if err := a.list.Start(ctx); err != nil {
		return domain.ViewState{}, err
	}
	if err := a.list.SetFilterText(filter); err != nil {
		return domain.ViewState{}, err
	}
	if page != articles.FirstPage {
		if err := a.list.SetPage(page); err != nil {
			return domain.ViewState{}, err
		}
	}

	state, err := waitSettled(ctx, a.list, page)
	if err != nil {
		return state, fmt.Errorf("waiting for page %d: %w", page, err)
	}
	return state, nil
}

func newArchiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Show the local article archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfg.Archive.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "No archive at %s\n", path)
				return nil
			}

			archive, err := store.Open(path)
			if err != nil {
				return err
			}
			defer archive.Close()

			count, err := archive.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("counting articles: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Archive: %s\n", path)
			fmt.Fprintf(out, "Articles: %s\n", humanize.Comma(int64(count)))
			if info, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "Size: %s\n", humanize.Bytes(uint64(info.Size())))
			}
			if !opts.cfg.Archive.Enabled {
				fmt.Fprintln(out, "Archiving is disabled; set archive.enabled to collect fetched pages.")
			}
			return nil
		},
	}
}
