// Package cmd implements the command-line interface of the download server.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/config"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/engine"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"

	"github.com/spf13/cobra"
)

var envFiles []string

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&envFiles, "env-file", "e", nil, "Load variables from these .env files (default .env)")
}

var rootCmd = &cobra.Command{
	Use:           "ytvd",
	Short:         "Download videos with live progress and stream them back with seeking",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() *model.Config {
	return config.Load(envFiles...)
}

// newEngine builds the yt-dlp engine writing into the manager's download directory
func newEngine(cfg *model.Config, sm *storage.Manager) *engine.YtDlp {
	return engine.NewYtDlp(engine.Options{
		DownloadDir:      sm.Dir(),
		OutputTemplate:   cfg.Engine.OutputTemplate,
		MergeFormat:      cfg.Engine.MergeFormat,
		NoPlaylist:       cfg.Engine.NoPlaylist,
		ProgressInterval: time.Duration(cfg.Engine.ProgressInterval) * time.Millisecond,
		MergeBestAudio:   cfg.Engine.MergeBestAudio,
	}, sm.Fs())
}
