package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skinfridge/fridge/config"
	"github.com/skinfridge/fridge/internal/app"
	"github.com/skinfridge/fridge/internal/domain"
	"github.com/skinfridge/fridge/internal/logger"
	"github.com/skinfridge/fridge/internal/render"
)

// cli holds the flags and the session shared by every subcommand
type cli struct {
	configPath  string
	displayName string
	verbose     bool

	logger  *zap.Logger
	session *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "fridgectl",
		Short: "Manage your AM and PM skincare fridge",
		Long: `fridgectl shows the products stored for your morning (AM) and evening (PM)
routines, flags ingredient conflicts between them and lets you search the
catalog to add or remove products.

Theme and day choices are remembered between runs.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.session != nil {
				c.session.Fridge.WaitIdle()
			}
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./config.yaml, ./config/config.yaml or /etc/skinfridge/config.yaml)")
	root.PersistentFlags().StringVarP(&c.displayName, "name", "n", "", "name shown in the fridge title")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.showCmd(),
		c.dayCmd(),
		c.themeCmd(),
		c.searchCmd(),
		c.addCmd(),
		c.removeCmd(),
		c.issuesCmd(),
		c.onboardCmd(),
	)
	return root
}

// setup loads config, builds the logger and bootstraps the fridge
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger, err = logger.New("production", level)
	if err != nil {
		return err
	}

	if cfg.Session.PreferencesPath == "" {
		cfg.Session.PreferencesPath = defaultPreferencesPath()
	}

	c.session, err = app.New(cfg, c.logger)
	if err != nil {
		return err
	}

	c.session.Start(cmd.Context(), c.displayName)
	c.session.Fridge.WaitIdle()
	return nil
}

// defaultPreferencesPath keeps CLI preferences in the user config dir,
// falling back to memory when there is none
func defaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "skinfridge", "preferences.yaml")
}

func (c *cli) styles() render.Styles {
	return render.NewStyles(render.PaletteFor(c.session.Fridge.State().Preferences.Theme))
}

func (c *cli) printPage(cmd *cobra.Command, state domain.FridgeState) {
	fmt.Fprintln(cmd.OutOrStdout(), render.Page(state))
}
