package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tidemark/internal/build"
	"tidemark/internal/domain/config"
	"tidemark/internal/domain/content"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the public directory",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("drafts", false, "include draft documents")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return err
	}
	if drafts, _ := cmd.Flags().GetBool("drafts"); drafts {
		cfg.Build.IncludeDraft = true
	}
	indexPath, _ := cmd.Flags().GetString("index")

	b := &build.Builder{Cfg: cfg, IndexPath: indexPath}
	res, err := b.Run(cmd.Context())
	if err != nil {
		// 日期写错属于构建级错误：把出错的文件、原始值和原因都打出来再退出
		var de *content.DateError
		if errors.As(err, &de) {
			logger.Error("invalid date in front matter",
				"path", de.Path,
				"value", de.Value,
				"reason", de.Unwrap(),
			)
			return err
		}
		var dup *content.DuplicateSlugError
		if errors.As(err, &dup) {
			logger.Error("duplicate slug, rename one of the documents", "slug", dup.Slug)
			return err
		}
		return err
	}

	for _, w := range res.Warnings {
		logger.Warn(w.Msg, "path", w.Path)
	}
	logger.Info("build complete",
		"documents", res.Documents,
		"output", cfg.Build.PublicDir,
	)
	return nil
}
