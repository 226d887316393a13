package main

import (
	"fmt"
	"os"

	cmd "github.com/contactaryanshukla14-lgtm/torchserve-workshop/cmd/workshop"
)

func main() {
	rootCmd := cmd.GetRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
