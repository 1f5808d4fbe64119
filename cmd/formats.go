package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/handler"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/service"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var formatsJSON bool

func init() {
	formatsCmd.Flags().BoolVar(&formatsJSON, "json", false, "Print the same JSON the HTTP API returns")
	rootCmd.AddCommand(formatsCmd)
}

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "List the downloadable formats of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		videoService := service.NewVideoService(newEngine(cfg, storage.NewManager(&cfg.Storage, afero.NewOsFs())))

		meta, err := videoService.GetFormats(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		resp := handler.ToFormatsResponse(meta)

		if formatsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		fmt.Fprintln(cmd.OutOrStdout(), resp.Title)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tRESOLUTION\tEXT\tFPS\tSIZE")
		for _, f := range resp.Formats {
			fps := "-"
			if f.FPS != nil {
				fps = fmt.Sprintf("%g", *f.FPS)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.FormatID, f.Resolution, f.Extension, fps, f.FileSize)
		}
		return w.Flush()
	},
}
