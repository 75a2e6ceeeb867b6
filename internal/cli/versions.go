package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (c *CLI) versionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions group:name",
		Short: "List every published version of an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseArtifact(args[0], false)
			if err != nil {
				return err
			}
			checker, err := c.newChecker(a, c.cfg.NewClient())
			if err != nil {
				return err
			}

			versions, err := checker.ListAllVersions(cmd.Context())
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				loggerFromContext(cmd.Context()).Warn("no versions found", "artifact", a.Key())
				return nil
			}

			w := cmd.OutOrStdout()
			for _, v := range versions {
				fmt.Fprintln(w, v)
			}
			return nil
		},
	}
}

func (c *CLI) latestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest group:name",
		Short: "Show the most recent release of an artifact and where it is packaged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseArtifact(args[0], false)
			if err != nil {
				return err
			}
			checker, err := c.newChecker(a, c.cfg.NewClient())
			if err != nil {
				return err
			}

			artifact, err := checker.MostRecentArtifact(cmd.Context())
			if err != nil {
				return err
			}
			if artifact == nil {
				return fmt.Errorf("no versions of %s found", a.Key())
			}
			location, err := artifact.PackagedLocation()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", artifact.Coordinates(), color.New(color.FgGreen).Sprint(artifact.Repository.Name()))
			fmt.Fprintln(w, location)
			return nil
		},
	}
}
