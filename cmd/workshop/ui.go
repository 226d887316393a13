package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Serve the upload page and classification API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg,
			app.WithInferenceClient(),
			app.WithDBInitialization(),
		)
		if err != nil {
			return err
		}
		defer a.Close()

		srv, err := server.NewServer(cfg)
		if err != nil {
			return err
		}
		srv.SetupRoutes(a)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			srv.Stop(cmd.Context())
		}()

		fmt.Printf("Frontend listening on http://%s:%d\n", cfg.Host, cfg.Port)
		return srv.Start()
	},
}

func init() {
	uiCmd.Flags().Int("port", config.DefaultFrontendPort, "Port to serve the frontend on")
	uiCmd.Flags().String("host", "localhost", "Host to serve the frontend on")

	viper.BindPFlag("port", uiCmd.Flags().Lookup("port"))
	viper.BindPFlag("host", uiCmd.Flags().Lookup("host"))
}
