package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	searchSize   int
	searchListID string
	searchOut    string
)

var searchCmd = &cobra.Command{
	Use:   "search <prompt>",
	Short: "Build a lead table for a free-text prompt",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.SearchRequest{
			Prompt:         strings.Join(args, " "),
			Size:           searchSize,
			ExistingListID: searchListID,
		}

		run, err := env.Store.CreateRun(ctx, req)
		if err != nil {
			zap.L().Warn("failed to record run start", zap.Error(err))
			run = nil
		}

		result, err := env.Pipeline.Run(ctx, req)
		if err != nil {
			recordRunFinish(ctx, env.Store, run, outcomeFromError(err))
			return eris.Wrap(err, "search")
		}
		recordRunFinish(ctx, env.Store, run, outcomeFromResult(result))

		if result.Building {
			zap.L().Info("prospect list still building, retry with --list-id",
				zap.String("list_id", result.JobMeta.ListID),
				zap.String("status", result.JobMeta.ListStatus),
			)
		} else {
			zap.L().Info("search complete",
				zap.String("provider", result.Provider),
				zap.Int("rows", len(result.Table.Rows)),
			)
		}

		if searchOut != "" {
			if err := export.WriteXLSX(&result.Table, searchOut); err != nil {
				return err
			}
			zap.L().Info("table exported", zap.String("path", searchOut))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchSize, "size", 10, "number of leads to request (1-30)")
	searchCmd.Flags().StringVar(&searchListID, "list-id", "", "resume an existing prospect list instead of creating one")
	searchCmd.Flags().StringVar(&searchOut, "out", "", "write the resulting table to an XLSX file")
	rootCmd.AddCommand(searchCmd)
}
