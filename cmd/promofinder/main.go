package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/promofinder/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "promofinder: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "promofinder",
		Short: "Browse nearby promotional offers in the terminal",
		Long: `promofinder loads a catalog of promotions, categories and stores and
lets you filter it by category, store and distance from your position.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/promofinder/config.toml)")
	root.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/promofinder/prefs.toml)")

	root.AddCommand(newListCmd(&opts))
	return root
}

func newListCmd(opts *app.Options) *cobra.Command {
	var (
		lo       app.ListOptions
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered catalog and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("lat") {
				lo.Latitude = &lat
			}
			if cmd.Flags().Changed("lon") {
				lo.Longitude = &lon
			}
			return app.RunList(cmd.Context(), *opts, lo, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&lo.CategoryID, "category", "", "only promotions in this category ID")
	cmd.Flags().StringVar(&lo.StoreID, "store", "", "only promotions from this store ID")
	cmd.Flags().Float64Var(&lo.MaxKm, "max-km", 0, "only stores within this many km of the viewer")
	cmd.Flags().Float64Var(&lat, "lat", 0, "viewer latitude (defaults to the configured location)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "viewer longitude (defaults to the configured location)")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}
