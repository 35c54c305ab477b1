package cli

import (
	"fmt"
	"io"
	"os"

	"category-quiz-service/internal/config"
	"category-quiz-service/internal/domain"
	"category-quiz-service/internal/gateway"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type questionFile struct {
	Questions []domain.QuestionInput `yaml:"questions"`
}

// parseQuestionFile reads a YAML document with a top-level questions list.
func parseQuestionFile(r io.Reader) ([]domain.QuestionInput, error) {
	var f questionFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode question file: %w", err)
	}
	return f.Questions, nil
}

// NewImportCmd bulk-imports questions from a YAML file into a category.
func NewImportCmd(configPath, apiURL *string) *cobra.Command {
	var (
		rawCategory string
		file        string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-import questions from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := domain.ParseCategory(rawCategory)
			if err != nil {
				return err
			}
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()
			inputs, err := parseQuestionFile(fh)
			if err != nil {
				return err
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			gw, closeFn, err := adminGateway(cmd.Context(), cfg, *apiURL, log)
			if err != nil {
				return err
			}
			defer closeFn()

			summary := gateway.ImportQuestions(cmd.Context(), gw, category, inputs)
			printSummary(cmd.OutOrStdout(), "imported", summary)
			return summaryErr(summary)
		},
	}
	cmd.Flags().StringVar(&rawCategory, "category", "", "target category")
	cmd.Flags().StringVar(&file, "file", "", "YAML question file")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// NewPurgeCmd deletes every question in a category.
func NewPurgeCmd(configPath, apiURL *string) *cobra.Command {
	var rawCategory string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all questions in a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := domain.ParseCategory(rawCategory)
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			gw, closeFn, err := adminGateway(cmd.Context(), cfg, *apiURL, log)
			if err != nil {
				return err
			}
			defer closeFn()

			questions, err := gw.GetQuestions(cmd.Context(), category)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(questions))
			for _, q := range questions {
				ids = append(ids, q.ID)
			}
			summary := gateway.DeleteQuestions(cmd.Context(), gw, category, ids)
			printSummary(cmd.OutOrStdout(), "deleted", summary)
			return summaryErr(summary)
		},
	}
	cmd.Flags().StringVar(&rawCategory, "category", "", "category to purge")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// NewStatsCmd prints question and result statistics.
func NewStatsCmd(configPath, apiURL *string) *cobra.Command {
	var rawCategory string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print question and result statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var category domain.Category
			if rawCategory != "" {
				parsed, err := domain.ParseCategory(rawCategory)
				if err != nil {
					return err
				}
				category = parsed
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			gw, closeFn, err := adminGateway(cmd.Context(), cfg, *apiURL, log)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := gw.Stats(cmd.Context(), category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "questions: %d\nresults:   %d\naverage:   %.2f\n",
				stats.TotalQuestions, stats.TotalResults, stats.AverageScore)
			return nil
		},
	}
	cmd.Flags().StringVar(&rawCategory, "category", "", "restrict question count to one category")
	return cmd
}

func printSummary(w io.Writer, verb string, s gateway.BulkSummary) {
	fmt.Fprintf(w, "%s %d, failed %d\n", verb, s.Succeeded, s.Failed)
	for _, e := range s.Errors {
		if e.ID != "" {
			fmt.Fprintf(w, "  #%d (%s): %v\n", e.Index, e.ID, e.Err)
			continue
		}
		fmt.Fprintf(w, "  #%d: %v\n", e.Index, e.Err)
	}
}

func summaryErr(s gateway.BulkSummary) error {
	if s.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", s.Failed, s.Failed+s.Succeeded)
	}
	return nil
}
