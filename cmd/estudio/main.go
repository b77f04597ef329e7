package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fernandol1z6/site-do-estudio/cmd/estudio/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "estudio",
		Short: "Studio content service",
		Long:  `Content service for the studio site: public content reads, the session-gated admin surface, and backup tooling over the local document with remote table-service fallback.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
