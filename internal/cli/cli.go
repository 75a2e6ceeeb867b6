// Package cli implements the updatecheck command-line interface.
//
// # Commands
//
//   - check: report whether artifacts have newer releases
//   - versions: list every published version of an artifact
//   - latest: show the most recent release and where it is packaged
//
// Repositories come from the config file (.updatecheck.yaml) or from
// repeated --repo flags. All commands support --verbose (-v) for debug
// logging; the logger is passed to commands through context.Context.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/git-pkgs/updatecheck/all"
	"github.com/git-pkgs/updatecheck/internal/config"
	"github.com/git-pkgs/updatecheck/internal/core"
)

const appName = "updatecheck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrOutdated is returned by check --fail-outdated when any artifact has a
// newer release.
var ErrOutdated = errors.New("outdated artifacts found")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	repoURLs   []string
	cfg        config.Config
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "updatecheck reports newer releases of artifacts on Maven repositories",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			if c.cfg.Verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default .updatecheck.yaml)")
	root.PersistentFlags().StringArrayVar(&c.repoURLs, "repo", nil, "repository URL, may be repeated (overrides configured repositories)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.latestCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.configFile != "" {
		viper.SetConfigFile(c.configFile)
	} else {
		viper.SetConfigName("." + appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(strings.ToUpper(appName))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// repositories returns fresh repository instances for an artifact. Each
// checker gets its own instances since repositories cache their last listing.
func (c *CLI) repositories(a config.ArtifactConfig, transport core.Transport) ([]core.Repository, error) {
	if len(c.repoURLs) > 0 {
		repos := make([]core.Repository, 0, len(c.repoURLs))
		for _, u := range c.repoURLs {
			r, err := core.NewRepository(config.DefaultKind, u, u, transport)
			if err != nil {
				return nil, err
			}
			repos = append(repos, r)
		}
		return repos, nil
	}

	var configured []config.RepositoryConfig
	if a.PURL == "" || len(a.Repositories) > 0 {
		configured = c.cfg.RepositoriesFor(a)
	}
	if len(configured) == 0 {
		if a.PURL != "" {
			return nil, nil
		}
		r, err := core.NewRepository(config.DefaultKind, "", "", transport)
		if err != nil {
			return nil, err
		}
		return []core.Repository{r}, nil
	}

	repos := make([]core.Repository, 0, len(configured))
	for _, rc := range configured {
		r, err := core.NewRepository(rc.Kind, rc.Name, rc.URL, transport)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// newChecker builds a checker for a. A PURL brings its own repository
// unless --repo overrides it.
func (c *CLI) newChecker(a config.ArtifactConfig, transport core.Transport) (*core.Checker, error) {
	repos, err := c.repositories(a, transport)
	if err != nil {
		return nil, err
	}
	opts := []core.CheckerOption{core.WithLogger(c.Logger)}
	if a.Classifier != "" {
		opts = append(opts, core.WithClassifier(a.Classifier))
	}

	if a.PURL != "" && len(c.repoURLs) > 0 {
		p, err := core.ParsePURL(a.PURL)
		if err != nil {
			return nil, err
		}
		return p.NewChecker(append(opts, core.WithRepositories(repos...))...)
	}
	if a.PURL != "" {
		checker, err := core.NewCheckerFromPURL(a.PURL, transport, opts...)
		if err != nil {
			return nil, err
		}
		for _, r := range repos {
			checker.AddRepository(r)
		}
		return checker, nil
	}

	opts = append(opts, core.WithRepositories(repos...))
	return core.NewChecker(a.Group, a.Name, a.Version, opts...), nil
}

// parseArtifact parses "group:name[:version[:classifier]]" or a PURL.
func parseArtifact(arg string, requireVersion bool) (config.ArtifactConfig, error) {
	if strings.HasPrefix(arg, "pkg:") {
		return config.ArtifactConfig{PURL: arg}, nil
	}

	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 4 || parts[0] == "" || parts[1] == "" {
		return config.ArtifactConfig{}, fmt.Errorf("invalid coordinates %q: want group:name[:version[:classifier]]", arg)
	}
	a := config.ArtifactConfig{Group: parts[0], Name: parts[1]}
	if len(parts) > 2 {
		a.Version = parts[2]
	}
	if len(parts) > 3 {
		a.Classifier = parts[3]
	}
	if requireVersion && a.Version == "" {
		return config.ArtifactConfig{}, fmt.Errorf("invalid coordinates %q: version is required", arg)
	}
	return a, nil
}
