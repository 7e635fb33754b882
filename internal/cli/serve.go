package cli

import (
	"github.com/spf13/cobra"

	"tidemark/internal/domain/config"
	"tidemark/internal/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally and rebuild on changes",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return err
	}
	indexPath, _ := cmd.Flags().GetString("index")
	addr, _ := cmd.Flags().GetString("addr")

	s, err := serve.New(cfg, indexPath, cfg.Build.ThemeDir, cfg.Site.Theme)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.ListenAndServe(cmd.Context(), addr)
}
