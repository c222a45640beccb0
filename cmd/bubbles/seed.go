package bubbles

import (
	"context"
	"fmt"
	"os"

	"github.com/soundprediction/bubbles/pkg/seed"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load bubbles and their relations from a YAML file",
	Long: `Load bubbles and their relations from a YAML file such as:

  bubbles:
    - title: Alpha
      related: [Beta]
    - title: Beta

Existing bubbles are reused, so seeding the same file twice is harmless.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file describing the graph")
	seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	graph, err := seed.Load(f)
	if err != nil {
		return err
	}

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

	ctx := cliContext(cmd.Context())
	if err := client.CreateConstraints(ctx); err != nil {
		return err
	}
	result, err := seed.Apply(ctx, client, graph)
	if err != nil {
		logger.Error("Seeding failed", "error", err)
		return err
	}

	logger.Info("Seed persisted",
		"created", result.Created,
		"existing", result.Existing,
		"related", result.Related,
	)
	return nil
}
