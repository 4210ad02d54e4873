package main

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeptools/db-core/conf"
	"github.com/zeptools/db-core/sqldb/impls/mysql"
	"github.com/zeptools/db-core/sqldb/impls/pgsql"
	"github.com/zeptools/db-core/table"
)

var (
	appRoot string
	dbName  string
)

var rootCmd = &cobra.Command{
	Use:   "dbadmin",
	Short: "Run ad-hoc SQL against a configured database",
	Long: `dbadmin executes ad-hoc SQL statements against one of the databases
declared in config/.sql-databases.json under the app root.`,
	SilenceUsage: true,
}

var queryCmd = &cobra.Command{
	Use:   "query <sql> [args...]",
	Short: "Run a row-producing statement and print rows as JSON lines",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(ctx context.Context, view *table.Table) error {
			result, err := view.Query(ctx, args[0], stmtArgs(args[1:])...)
			if err != nil {
				return err
			}
			for _, row := range result.Rows {
				if err := json.MarshalWrite(os.Stdout, row); err != nil {
					return err
				}
				fmt.Println()
			}
			return nil
		})
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <sql> [args...]",
	Short: "Run a mutating statement and print affected-row metadata",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(ctx context.Context, view *table.Table) error {
			result, err := view.Query(ctx, args[0], stmtArgs(args[1:])...)
			if err != nil {
				return err
			}
			fmt.Printf("affected=%d changed=%d insert_id=%d\n",
				result.Meta.AffectedRows, result.Meta.ChangedRows, result.Meta.InsertID)
			return nil
		})
	},
}

func withView(fn func(ctx context.Context, view *table.Table) error) error {
	mysql.Register()
	pgsql.Register()
	confs, err := conf.LoadSQLDBConfs(appRoot)
	if err != nil {
		return err
	}
	dbClient, err := conf.PrepareSQLDBClient(confs, dbName)
	if err != nil {
		return err
	}
	defer func() { _ = dbClient.Close() }()
	view := table.New(dbName, dbClient)
	return fn(context.Background(), view)
}

// statement args stay strings; the driver converts them server-side
func stmtArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().StringVar(&appRoot, "app-root", ".", "directory holding the config/ directory")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", "main", "database name from .sql-databases.json")
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(execCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
