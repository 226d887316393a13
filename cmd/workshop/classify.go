package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/utils/imageutil"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <image>",
	Short: "Classify an image against the running backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithInferenceClient())
		if err != nil {
			return err
		}
		defer a.Close()

		imageBytes, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		normalized, err := imageutil.NormalizeJPEG(imageBytes)
		if err != nil {
			return fmt.Errorf("invalid image: %w", err)
		}

		result, err := a.InferenceClient.Predict(cmd.Context(), normalized)
		if err != nil {
			return fmt.Errorf("prediction failed: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tCONFIDENCE")
		for _, p := range result {
			fmt.Fprintf(w, "%s\t%.2f%%\n", p.Class, p.Confidence*100)
		}

		return w.Flush()
	},
}
