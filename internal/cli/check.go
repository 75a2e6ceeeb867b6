package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/git-pkgs/updatecheck/internal/config"
	"github.com/git-pkgs/updatecheck/internal/core"
	"github.com/git-pkgs/updatecheck/internal/state"
)

// row is one line of check output.
type row struct {
	key      string
	current  string
	status   core.Status
	latest   string
	location string
	err      error
	cached   bool
}

func (c *CLI) checkCommand() *cobra.Command {
	var (
		failOutdated bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:   "check [group:name:version | purl]...",
		Short: "Report whether artifacts have newer releases",
		Long: `Check each artifact against its repositories. Artifacts are given as
arguments or, when none are given, read from the artifacts section of the
config file. Results are cached in the state file for state_ttl; use
--refresh to query repositories regardless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			artifacts := c.cfg.Artifacts
			if len(args) > 0 {
				artifacts = nil
				for _, arg := range args {
					a, err := parseArtifact(arg, true)
					if err != nil {
						return err
					}
					artifacts = append(artifacts, a)
				}
			}
			if len(artifacts) == 0 {
				return fmt.Errorf("no artifacts to check: pass coordinates or configure artifacts")
			}

			store, err := state.Open(c.cfg.StateFile)
			if err != nil {
				logger.Warn("ignoring unreadable state file", "path", c.cfg.StateFile, "err", err)
				store, _ = state.Open("")
			}

			transport := c.cfg.NewClient()
			rows := make([]row, len(artifacts))
			var (
				pending []*core.Checker
				index   []int
			)
			for i, a := range artifacts {
				checker, err := c.newChecker(a, transport)
				if err != nil {
					return err
				}
				rows[i] = row{key: a.Key(), current: checker.CurrentVersion()}
				if !refresh {
					if e, ok := store.Fresh(a.Key(), checker.CurrentVersion(), c.cfg.StateTTL); ok {
						logger.Debug("using cached result", "artifact", a.Key(), "checked_at", e.CheckedAt)
						rows[i] = rowFromEntry(a, e)
						continue
					}
				}
				pending = append(pending, checker)
				index = append(index, i)
			}

			p := newProgress(logger)
			results := core.CheckAllWithConcurrency(ctx, pending, c.cfg.Concurrency)
			p.done(fmt.Sprintf("Checked %d artifacts", len(pending)))

			for j, res := range results {
				i := index[j]
				rows[i] = rowFromResult(rows[i].key, res)
				if res.Err == nil {
					store.Record(rows[i].key, state.EntryFromResult(res.Checker.CurrentVersion(), res))
				}
			}
			if err := store.Save(); err != nil {
				logger.Warn("could not write state file", "path", store.Path(), "err", err)
			}

			printRows(cmd.OutOrStdout(), rows)

			for _, r := range rows {
				if r.err != nil {
					return fmt.Errorf("%s: %w", r.key, r.err)
				}
			}
			if failOutdated {
				for _, r := range rows {
					if r.status == core.StatusOutdated {
						return ErrOutdated
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOutdated, "fail-outdated", false, "exit with an error if any artifact is outdated")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func rowFromResult(key string, res core.Result) row {
	r := row{
		key:      key,
		current:  res.Checker.CurrentVersion(),
		status:   res.Status,
		location: res.Location,
		err:      res.Err,
	}
	if res.Latest != nil {
		r.latest = res.Latest.String()
	}
	return r
}

func rowFromEntry(a config.ArtifactConfig, e state.Entry) row {
	return row{
		key:      a.Key(),
		current:  e.CurrentVersion,
		status:   e.Status,
		latest:   e.LatestVersion,
		location: e.LatestLocation,
		cached:   true,
	}
}

func printRows(w io.Writer, rows []row) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	grey := color.New(color.FgHiBlack).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		var status string
		switch {
		case r.err != nil:
			status = red("error")
		case r.status == core.StatusOutdated:
			status = yellow(r.status.String())
		case r.status == core.StatusUpToDate:
			status = green(r.status.String())
		default:
			status = grey(r.status.String())
		}

		detail := r.location
		if r.err != nil {
			detail = r.err.Error()
		}
		latest := r.latest
		if latest == "" {
			latest = "-"
		}
		if r.cached {
			detail += " " + grey("(cached)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.key, r.current, latest, status, detail)
	}
	_ = tw.Flush()
}
