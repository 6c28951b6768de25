package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"millionaire-quiz-service/internal/config"
	"millionaire-quiz-service/internal/infra/postgres"
	"millionaire-quiz-service/internal/questionbank"
)

// NewSeedCmd loads a question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML question bank into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			logger := newLogger(cfg)

			bank, err := loadBank(bankPath)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, logger); err != nil {
				return err
			}

			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()
			stats, err := postgres.Seed(cmd.Context(), db, bank)
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{
				"categories": stats.Categories,
				"questions":  stats.Questions,
			}).Info("question bank seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&bankPath, "file", "", "question bank YAML (defaults to the bundled bank)")
	return cmd
}

func loadBank(path string) (questionbank.Bank, error) {
	if path == "" {
		return questionbank.Default()
	}
	return questionbank.Load(path)
}
