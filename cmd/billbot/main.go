package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billbotdev/billbot/internal/config"
	"github.com/billbotdev/billbot/internal/version"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "billbot",
		Short:         "Webhook bot that files shared bills from chat into storage and a categorization form",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to the TOML config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
