package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"

	"github.com/spf13/cobra"
)

var bundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "List packaged bundles recorded in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithDBInitialization())
		if err != nil {
			return err
		}
		defer a.Close()

		bundles, err := a.BundleRepository.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(bundles) == 0 {
			fmt.Println("No bundles recorded. Run `workshop archive` first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tHANDLER\tCREATED\tLOCATION")
		for _, b := range bundles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				b.Name, b.Version, b.Handler,
				b.CreatedAt.Time.Format("2006-01-02 15:04"),
				b.StoreLocation,
			)
		}

		return w.Flush()
	},
}
