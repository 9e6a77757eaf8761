package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ordercard/internal/card"
	"ordercard/internal/export"
	"ordercard/internal/order"
)

func newExportCmd(a *app) *cobra.Command {
	var draft, mode string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the party or workshop card of a draft as a JPEG",
		Long: `Export the party or workshop card of a draft order as a JPEG image.

The image is handed to SHARE_COMMAND when one is configured and installed,
otherwise it is saved to DOWNLOAD_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			viewMode, err := card.ParseViewMode(mode)
			if err != nil {
				return err
			}
			identity, err := a.requireActivation(ctx)
			if err != nil {
				return err
			}

			ed := order.NewEditor(nil, a.logger)
			if err := ed.LoadDraft(draft); err != nil {
				return err
			}
			o := ed.Order()
			if err := export.CheckExportable(o, viewMode); err != nil {
				return err
			}

			exporter, deliverer := a.exportPipeline()
			img, err := exporter.Export(ctx, o, viewMode, identity.Company)
			if err != nil {
				return err
			}
			d, err := deliverer.ShareOrDownload(ctx, img, export.Filename(o, viewMode), export.ShareText(o, viewMode))
			if err != nil {
				return err
			}

			if d.Method == export.MethodDownloaded {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", d.Path)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Shared.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&draft, "draft", "", "YAML draft order to export")
	cmd.Flags().StringVar(&mode, "mode", string(card.ModeParty), "card to export: party or workshop")
	_ = cmd.MarkFlagRequired("draft")
	return cmd
}

func (a *app) exportPipeline() (*export.Exporter, *export.Deliverer) {
	rasterizer := export.NewRodRasterizer(a.cfg.Export.ChromeBin, a.cfg.Export.Quality, a.logger)
	sharer := export.NewCommandSharer(a.cfg.Export.ShareCommand, os.TempDir(), a.logger)
	return export.NewExporter(rasterizer, a.cfg.Export.Background, a.logger),
		export.NewDeliverer(sharer, a.cfg.Export.DownloadDir, a.logger)
}
