package main

import (
	"fmt"
	"io"
	"os"

	commoncfg "apartment-data/common/config"
	"apartment-data/internal/schema"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(openDB).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type dbOpener func() (*gorm.DB, error)

func openDB() (*gorm.DB, error) {
	cfg := &commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "apartments",
		SSLMode:  "disable",
	}
	cfg.LoadFromEnv("DB")
	return schema.OpenPostgres(cfg)
}

func newRootCmd(open dbOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "apartment-migrate",
		Short:        "Manage the apartment-data database schema",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(upCmd(open), statusCmd(open))
	return rootCmd
}

func upCmd(open dbOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update tables, indexes and foreign keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			db, err := open()
			if err != nil {
				return err
			}

			pending, err := schema.Pending(db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "Schema is up to date.")
				return nil
			}
			if dryRun {
				fmt.Fprintln(out, "Pending changes:")
				for _, p := range pending {
					fmt.Fprintf(out, "- %s %s\n", p.Kind, p.Name)
				}
				return nil
			}

			if err := schema.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintf(out, "Applied %d change(s).\n", len(pending))
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "List pending changes without applying them")
	return cmd
}

func statusCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which tables and indexes exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			status, err := schema.Status(db)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func printStatus(w io.Writer, status []schema.ObjectStatus) {
	fmt.Fprintf(w, "%-6s  %-30s  %-8s\n", "Kind", "Name", "Status")
	for _, s := range status {
		state := "Missing"
		if s.Present {
			state = "Present"
		}
		fmt.Fprintf(w, "%-6s  %-30s  %-8s\n", s.Kind, s.Name, state)
	}
}
