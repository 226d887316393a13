package cmd

import (
	"fmt"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/services/downloader"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Download the pretrained checkpoint and label mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		checkpoint, err := downloader.CheckpointArtifact(cfg)
		if err != nil {
			return err
		}

		labels, err := downloader.LabelsArtifact(cfg)
		if err != nil {
			return err
		}

		d := downloader.NewDownloader(a.Logger)
		if err := d.FetchAll(cmd.Context(), []downloader.Artifact{checkpoint, labels}); err != nil {
			// No automatic recovery: report and let the operator re-run setup.
			return fmt.Errorf("setup failed: %w", err)
		}

		fmt.Println("Setup complete:")
		fmt.Println("  checkpoint:", checkpoint.Dest)
		fmt.Println("  labels:    ", labels.Dest)
		fmt.Println("Next: `workshop archive` to package the model.")
		return nil
	},
}
