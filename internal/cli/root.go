package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "tidemark",
	Short:        "Stream-oriented static site generator",
	Long:         "tidemark turns a directory of markdown files into a site\norganized by stream, tag, archive and author.",
	SilenceUsage: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "site.yaml", "path to site config")
	rootCmd.PersistentFlags().String("index", ".tidemark/index.db", "path to the metadata index")
}
