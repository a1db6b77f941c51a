package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/refreshd/internal/config"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"refreshd.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format" enum:"text,json" default:"text"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run      RunCmd      `cmd:"" default:"withargs" help:"Run the refresh daemon"`
	Discover DiscoverCmd `cmd:"" help:"Query the model provider once and show the catalog diff"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// stdout is where commands print user-facing output.
var stdout io.Writer = os.Stdout

// AfterApply runs after flag parsing; it sets up logging once and loads .env files.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = newLogger(os.Stderr, c.LogFormat, c.Verbose)
	slog.SetDefault(g.Logger)
	return config.LoadEnvFiles()
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
