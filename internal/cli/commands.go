package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/filter"
	"github.com/five82/shelf/internal/local"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/pipeline"
)

func newListCommand(v *viper.Viper) *cobra.Command {
	var (
		page, size         int
		search             string
		categories         []string
		favorites          bool
		minPrice, maxPrice float64
		minRating          float64
		output             string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the merged, filtered catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v)
			if err != nil {
				return err
			}
			defer env.Close()

			criteria := filter.Criteria{}.WithSearch(search).WithCategories(categories...)
			if cmd.Flags().Changed("min-price") {
				criteria = criteria.WithMinPrice(&minPrice)
			}
			if cmd.Flags().Changed("max-price") {
				criteria = criteria.WithMaxPrice(&maxPrice)
			}
			if cmd.Flags().Changed("min-rating") {
				criteria = criteria.WithMinRating(&minRating)
			}
			if !cmd.Flags().Changed("size") {
				size = env.Config.PageSize
			}

			if err := env.Fetcher.Refresh(cmd.Context()); err != nil {
				env.Log.Warnw("list fetch failed", "error", err)
			}
			snap := env.Store.Snapshot()
			view := pipeline.Build(pipeline.Input{
				Remote:            snap.Products,
				Present:           snap.Present,
				Loading:           snap.Loading,
				Err:               snap.LastError,
				Overlay:           env.Session.Overlay(),
				Favorites:         env.Session.Favorites(),
				ShowOnlyFavorites: favorites,
				Criteria:          criteria,
				Page:              page,
				PageSize:          size,
			})

			out := cmd.OutOrStdout()
			if view.Empty == pipeline.EmptyError {
				if output != "json" {
					fmt.Fprintln(out, emptyMessage(view))
				}
				return view.Err
			}
			if output == "json" {
				return writeJSON(out, view.Items)
			}
			if view.Empty != pipeline.EmptyNone {
				fmt.Fprintln(out, emptyMessage(view))
				return nil
			}
			writeTable(out, view, env.Session)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&page, "page", 1, "page number")
	f.IntVar(&size, "size", 0, "page size (default from config)")
	f.StringVar(&search, "search", "", "match title or description")
	f.StringSliceVar(&categories, "category", nil, "category (repeatable)")
	f.BoolVar(&favorites, "favorites", false, "only favorites")
	f.Float64Var(&minPrice, "min-price", 0, "min price")
	f.Float64Var(&maxPrice, "max-price", 0, "max price")
	f.Float64Var(&minRating, "min-rating", 0, "min rating")
	f.StringVar(&output, "output", "", "output format: table|json")
	return cmd
}

func newGetCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v)
			if err != nil {
				return err
			}
			defer env.Close()

			id := catalog.ID(strings.TrimSpace(args[0]))
			p, status, err := lookup(cmd.Context(), env, id)
			if err != nil {
				return err
			}
			switch status {
			case local.LookupRemoved:
				fmt.Fprintf(cmd.ErrOrStderr(), "product %s was removed locally; run `shelf reset` to restore it\n", id)
			case local.LookupNotFound:
				fmt.Fprintf(cmd.ErrOrStderr(), "product %s not found\n", id)
			default:
				return writeJSON(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

// lookup classifies id against the remote list and the overlay, fetching it
// individually when the list does not carry it.
func lookup(ctx context.Context, env *app.Env, id catalog.ID) (catalog.Product, local.LookupStatus, error) {
	overlay := env.Session.Overlay()
	if overlay.IsRemoved(id) {
		return catalog.Product{}, local.LookupRemoved, nil
	}
	if e, ok := overlay.Entry(id); ok && e.Kind == local.KindCreation {
		return e.Product, local.LookupFound, nil
	}
	if id.IsLocal() {
		return catalog.Product{}, local.LookupNotFound, nil
	}

	remote, err := env.Fetcher.Product(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return catalog.Product{}, local.LookupNotFound, nil
	case err != nil:
		if e, ok := overlay.Entry(id); ok {
			env.Log.Warnw("showing local copy, remote fetch failed", "id", id, "error", err)
			return e.Product, local.LookupFound, nil
		}
		return catalog.Product{}, local.LookupNotFound, fmt.Errorf("fetch product %s: %w", id, err)
	}
	p, status := local.Lookup([]catalog.Product{remote}, overlay, id)
	return p, status, nil
}

func newFavoriteCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a product's favorite mark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v)
			if err != nil {
				return err
			}
			defer env.Close()

			id := catalog.ID(strings.TrimSpace(args[0]))
			env.Session.ToggleFavorite(id)
			if env.Session.Favorites().Has(id) {
				fmt.Fprintf(cmd.OutOrStdout(), "★ %s added to favorites\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s removed from favorites\n", id)
			}
			return nil
		},
	}
}

func newResetCommand(v *viper.Viper) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard local edits, local products and removals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v)
			if err != nil {
				return err
			}
			defer env.Close()

			o := env.Session.Overlay()
			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Discard %d local products/edits and %d removals? (y/N): ", o.Len(), o.RemovedCount())
				var resp string
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &resp); err != nil || (resp != "y" && resp != "Y") {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			env.Session.ResetLocal()
			env.Log.Infow("local data reset", "entries", o.Len(), "removed", o.RemovedCount())
			fmt.Fprintln(cmd.OutOrStdout(), "local data cleared; favorites kept")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "yes", false, "skip confirmation")
	return cmd
}

func newLogCommand(v *viper.Viper) *cobra.Command {
	var lines int
	var raw bool
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the end of shelf's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				rawLines, err := logtail.Read(cfg.LogPath(), lines)
				if err != nil {
					return err
				}
				for _, line := range rawLines {
					fmt.Fprintln(out, line)
				}
				return nil
			}
			entries, err := logtail.Tail(cfg.LogPath(), lines)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no log entries in %s\n", cfg.LogPath())
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, e.Format())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 40, "number of lines (0 for all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the JSON lines unchanged")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeTable(w io.Writer, view pipeline.View, session *local.Session) {
	overlay := session.Overlay()
	favs := session.Favorites()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tRATING\t")
	for _, p := range view.Items {
		marks := ""
		if e, ok := overlay.Entry(p.ID); ok {
			if e.Kind == local.KindCreation {
				marks += "+"
			} else {
				marks += "~"
			}
		}
		if favs.Has(p.ID) {
			marks += "★"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%.1f (%d)\t%s\n",
			p.ID, p.Title, p.Price, p.Category, p.Rating.Rate, p.Rating.Count, marks)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\n%d-%d of %d · page %d/%d", view.RangeStart, view.RangeEnd, view.Filtered, view.Page.Page, view.TotalPages)
	if view.Stale {
		fmt.Fprint(w, " · stale (last fetch failed)")
	}
	fmt.Fprintln(w)
}

func emptyMessage(view pipeline.View) string {
	switch view.Empty {
	case pipeline.EmptyError:
		return "could not load products"
	case pipeline.EmptyLoading:
		return "products are still loading"
	case pipeline.EmptyNoRemote:
		return "the catalog is empty"
	case pipeline.EmptyAfterOverlay:
		return "every product has been removed locally; run `shelf reset` to restore them"
	case pipeline.EmptyNoFavorites:
		return "no favorites yet"
	case pipeline.EmptyNoMatches:
		return "no products match the filters"
	}
	return ""
}
