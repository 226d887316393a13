package cmd

import (
	"fmt"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/db/models"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/services/archiver"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/services/bundlestore"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/services/downloader"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/utils/hashutil"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Package the checkpoint and label mapping into a deployable bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithDBInitialization())
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

		serializedFile := viper.GetString("serialized-file")
		if serializedFile == "" {
			serializedFile = checkpoint.Dest
		}

		job := archiver.PackJob{
			ModelName:      cfg.Model.Name,
			Version:        cfg.Model.Version,
			SerializedFile: serializedFile,
			Handler:        cfg.Model.Handler,
			ExtraFiles:     []string{labels.Dest},
			ExportPath:     cfg.StoreDir,
			// Always overwrite: re-archiving the same inputs is then a safe
			// manual retry.
			Force: true,
		}

		packer := archiver.NewTorchArchiver(a.Logger)
		bundlePath, err := packer.Pack(cmd.Context(), job)
		if err != nil {
			return fmt.Errorf("packaging failed: %w", err)
		}

		store, err := bundlestore.NewBundleStore(cfg)
		if err != nil {
			return err
		}

		location, err := store.Put(cmd.Context(), bundlePath)
		if err != nil {
			return fmt.Errorf("failed to publish bundle: %w", err)
		}

		digest, err := hashutil.Blake3HashFile(serializedFile)
		if err != nil {
			return err
		}

		bundle := &models.Bundle{
			Name:           cfg.Model.Name,
			Version:        cfg.Model.Version,
			Handler:        cfg.Model.Handler,
			CheckpointHash: digest,
			BundlePath:     bundlePath,
			StoreLocation:  location,
		}
		if _, err := a.BundleRepository.Create(cmd.Context(), bundle); err != nil {
			a.Logger.Warn("Failed to record bundle in registry", zap.Error(err))
		}

		fmt.Println("Bundle ready:", location)
		fmt.Println("Next: `workshop backend start` to launch the serving container.")
		return nil
	},
}

func init() {
	archiveCmd.Flags().String("serialized-file", "", "Override the checkpoint file to package")
	viper.BindPFlag("serialized-file", archiveCmd.Flags().Lookup("serialized-file"))
}
