package cmd

import (
	"fmt"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/services/backend"

	"github.com/spf13/cobra"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Control the serving container",
}

var backendStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the serving container with the packaged bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rt := backend.NewDockerRuntime(cfg.Backend, a.Logger)
		err = rt.Start(cmd.Context(), backend.StartOptions{
			ModelName:  cfg.Model.Name,
			BundleFile: cfg.Model.Name + ".mar",
			StoreDir:   cfg.StoreDir,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Serving container started. Inference on :%d, management on :%d.\n",
			cfg.Backend.InferencePort, cfg.Backend.ManagementPort)
		fmt.Println("The model takes a few seconds to load; check `workshop backend status`.")
		return nil
	},
}

var backendStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the serving container",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rt := backend.NewDockerRuntime(cfg.Backend, a.Logger)
		if err := rt.Stop(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Serving container stopped.")
		return nil
	},
}

var backendStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report container and model health",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()

		a, err := app.NewApp(cfg, app.WithInferenceClient())
		if err != nil {
			return err
		}
		defer a.Close()

		rt := backend.NewDockerRuntime(cfg.Backend, a.Logger)
		status, err := rt.Status(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("container:", status)

		if status == backend.StatusRunning {
			if err := a.InferenceClient.Ping(cmd.Context()); err != nil {
				fmt.Println("model:     not ready:", err)
			} else {
				fmt.Println("model:     healthy")
			}
		}

		return nil
	},
}

func init() {
	backendCmd.AddCommand(backendStartCmd, backendStopCmd, backendStatusCmd)
}
