package commands

import (
	"fmt"

	"git.home.luguber.info/inful/refreshd/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force)
}

// RunInit writes a starter configuration to configPath. An existing file
// is only replaced when force is set.
func RunInit(configPath string, force bool) error {
	_, _ = fmt.Fprintf(stdout, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(stdout, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(stdout, "initialized successfully")
	return nil
}
