// Package main is the entry point for the dungeonforge CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sternmatt/dungeonforge/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dungeonforge",
	Short: "Tabletop rules engine",
	Long:  `Dungeonforge evaluates dice expressions and resolves turn-based encounters, level-ups, and spellcasting.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(simulateCmd)
}

// setupLogger builds the process logger from configuration.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
