package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	batchFile        string
	batchSize        int
	batchConcurrency int
	batchOutDir      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Build lead tables for a file of prompts",
	Long:  "Reads one prompt per line, runs each through the pipeline concurrently, and optionally writes each table to an XLSX file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		prompts, err := readPrompts(batchFile)
		if err != nil {
			return err
		}

		return processBatch(ctx, env, prompts)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "path to prompts file, one prompt per line (required)")
	batchCmd.Flags().IntVar(&batchSize, "size", 10, "number of leads per prompt (1-30)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "max prompts processed at once")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for per-prompt XLSX exports")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// readPrompts reads one prompt per line, skipping blanks and # comments.
func readPrompts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open prompts file")
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read prompts file")
	}
	return prompts, nil
}

// processBatch runs each prompt through the pipeline with bounded
// concurrency. Individual failures are logged and do not abort the batch.
func processBatch(ctx context.Context, env *pipelineEnv, prompts []string) error {
	if len(prompts) == 0 {
		zap.L().Info("no prompts found")
		return nil
	}

	zap.L().Info("processing batch",
		zap.Int("prompts", len(prompts)),
		zap.Int("concurrency", batchConcurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	var succeeded, failed atomic.Int64

	for i, prompt := range prompts {
		g.Go(func() error {
			log := zap.L().With(zap.String("prompt", prompt))

			req := model.SearchRequest{Prompt: prompt, Size: batchSize}
			run := recordRunStart(gctx, env.Store, req)

			result, err := env.Pipeline.Run(gctx, req)
			if err != nil {
				failed.Add(1)
				recordRunFinish(gctx, env.Store, run, outcomeFromError(err))
				log.Error("search failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			recordRunFinish(gctx, env.Store, run, outcomeFromResult(result))
			log.Info("search complete",
				zap.String("provider", result.Provider),
				zap.Int("rows", len(result.Table.Rows)),
			)

			if batchOutDir != "" && !result.Building {
				path := filepath.Join(batchOutDir, fmt.Sprintf("leads-%03d.xlsx", i+1))
				if err := export.WriteXLSX(&result.Table, path); err != nil {
					log.Warn("export failed", zap.Error(err))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
