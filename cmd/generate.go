package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchforge/pitchforge/internal/competitor"
	"github.com/pitchforge/pitchforge/internal/export"
	"github.com/pitchforge/pitchforge/internal/extract"
	"github.com/pitchforge/pitchforge/internal/finmodel"
	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/internal/plan"
	"github.com/pitchforge/pitchforge/internal/questionnaire"
)

var (
	generateTitle string
	generateXLSX  string
)

var generateCmd = &cobra.Command{
	Use:   "generate [idea]",
	Short: "Generate the full plan bundle for a startup idea",
	Long:  "Extracts business elements, then generates the plan narrative, financial model, validation questionnaire and competitor analysis, and saves the results.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := newEnv(ctx, "generate")
		if err != nil {
			return err
		}
		defer env.Close()

		elements, err := extract.NewExtractor(env.Client).Extract(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "extract elements")
		}
		zap.L().Info("elements extracted", zap.String("problem", elements.Problem))

		var (
			content  string
			fm       *model.FinancialModel
			survey   *questionnaire.Questionnaire
			analysis *model.CompetitorAnalysis
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			content, err = plan.NewGenerator(env.Client).GenerateBuffered(gctx, elements)
			return eris.Wrap(err, "generate plan")
		})
		g.Go(func() error {
			result, err := finmodel.NewGenerator(env.Client).Generate(gctx, elements)
			if err != nil {
				// A bundle without projections is worse than a canned
				// projection; fall back and keep going.
				zap.L().Warn("financial model generation failed, using fallback", zap.Error(err))
				result = finmodel.DefaultModel()
			}
			fm = result
			return nil
		})
		g.Go(func() error {
			result, err := questionnaire.NewGenerator(env.Client).Generate(gctx, elements)
			if err != nil {
				zap.L().Warn("questionnaire generation failed, skipping", zap.Error(err))
				return nil
			}
			survey = result
			return nil
		})
		g.Go(func() error {
			analysis = competitor.Analyze(elements)
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		title := generateTitle
		if title == "" {
			title = "商业计划书"
		}

		item := &model.SavedItem{
			Title:          title,
			Type:           model.SavedBusinessPlan,
			Elements:       *elements,
			Content:        content,
			FinancialModel: fm,
			CompetitorData: analysis,
		}
		if err := env.Store.Save(ctx, item); err != nil {
			return eris.Wrap(err, "save plan")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "商业计划书已保存：%s\n", item.ID)

		if survey != nil {
			surveyItem := &model.SavedItem{
				Title:     survey.Title,
				Type:      model.SavedQuestionnaire,
				Elements:  *elements,
				Questions: survey.Questions,
			}
			if err := env.Store.Save(ctx, surveyItem); err != nil {
				return eris.Wrap(err, "save questionnaire")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "市场验证问卷已保存：%s\n", surveyItem.ID)
		}

		if generateXLSX != "" {
			if err := export.WriteFile(generateXLSX, fm); err != nil {
				return eris.Wrap(err, "export financial model")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "财务模型已导出：%s\n", generateXLSX)
		}

		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "plan title (default 商业计划书)")
	generateCmd.Flags().StringVar(&generateXLSX, "xlsx", "", "export the financial model workbook to this path")
	rootCmd.AddCommand(generateCmd)
}
