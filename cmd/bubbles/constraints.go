package bubbles

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "Register the bubble title uniqueness constraint and exit",
	RunE:  runConstraints,
}

func init() {
	rootCmd.AddCommand(constraintsCmd)
}

func runConstraints(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	client, err := openClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	ctx, cancel := context.WithTimeout(cliContext(cmd.Context()), 30*time.Second)
	defer cancel()
	if err := client.CreateConstraints(ctx); err != nil {
		logger.Error("Constraint registration failed", "error", err)
		return err
	}
	return nil
}
