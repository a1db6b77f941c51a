package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/refreshd/cmd/refreshd/commands"
	"git.home.luguber.info/inful/refreshd/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{}
	ctx := kong.Parse(&cli,
		kong.Name("refreshd"),
		kong.Description("Keeps gateway views and the LM Studio model catalog fresh."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, &cli),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
