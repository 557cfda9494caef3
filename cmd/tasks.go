package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/model"
)

var (
	tasksLimit    int
	purgeOlderHrs int
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List recent analysis tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		tasks, err := store.List(ctx, tasksLimit)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("no tasks")
			return nil
		}
		for _, t := range tasks {
			line := fmt.Sprintf("%s  %-10s  %s  %s", t.ID, t.Status, t.CreatedAt.Format(time.RFC3339), t.Filename)
			if t.Status == model.TaskStatusCompleted && t.Results != nil {
				line += fmt.Sprintf("  (%d processed, %d brand-related)", t.Results.TotalProcessed, t.Results.BrandRelatedCount)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete tasks older than the given age",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteExpired(ctx, time.Duration(purgeOlderHrs)*time.Hour)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d tasks\n", deleted)
		return nil
	},
}

func init() {
	tasksCmd.Flags().IntVarP(&tasksLimit, "limit", "n", 20, "max tasks to list")
	purgeCmd.Flags().IntVar(&purgeOlderHrs, "older-than", 24, "delete tasks older than this many hours")
	tasksCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(tasksCmd)
}
