// Command propctl runs administrative tasks against the property API database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"propapi/cmd/propctl/internal/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "propctl",
		Short:         "Property API administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.MigrateCmd(),
		commands.TokenCmd(),
		commands.InvoicesCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
