package cli

import (
	"fmt"

	"github.com/dfryer1193/driveimages/internal/config"
	"github.com/dfryer1193/driveimages/internal/logging"
	"github.com/spf13/cobra"
)

type app struct {
	cfgFile string
	cfg     *config.Config
}

// NewRootCmd builds the driveimg command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "driveimg",
		Short: "Keyed registry of Google Drive image links",
		Long: `driveimg keeps a registry of images hosted on Google Drive under short keys.

Share links of every common shape are normalized to a direct-view URL that can
be embedded in an <img> tag, and content can reference images by key through
[gdrive_image] shortcodes or gdrive:<key> markdown image destinations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json, console)")

	rootCmd.AddCommand(
		a.newServeCmd(),
		a.newAddCmd(),
		a.newImportCmd(),
		a.newDeleteCmd(),
		a.newListCmd(),
		a.newGetCmd(),
		newNormalizeCmd(),
		a.newRenderCmd(),
	)

	return rootCmd
}

// Execute runs the command tree against the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}

	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return fmt.Errorf("error binding log-level flag: %w", err)
	}
	if err := v.BindPFlag("log.format", cmd.Flags().Lookup("log-format")); err != nil {
		return fmt.Errorf("error binding log-format flag: %w", err)
	}

	cfg, err := config.New(v)
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.Log); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}
