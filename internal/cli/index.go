package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikas872/nyay-sathi-clean/internal/index"
	"github.com/vikas872/nyay-sathi-clean/internal/llm"
	"github.com/vikas872/nyay-sathi-clean/internal/worker"
)

var (
	indexChunks  string
	indexOut     string
	indexWorkers int
	indexTimeout time.Duration
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the statutory vector index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed statute chunks and write the index file",
	Long: `Read parsed statute chunks (a JSON array) and embed them with the
configured model, writing the vector index the serve and ask commands
load at startup.

Example:
  nyay index build --chunks data/chunks.json
  nyay index build --chunks data/chunks.json --out data/index.json --workers 8`,
	RunE: runIndexBuild,
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded index size",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		svc := index.NewService(cfg.Index)
		if err := svc.Load(); err != nil {
			return fmt.Errorf("load index: %w", err)
		}
		fmt.Printf("index: %s\nchunks: %d\n", cfg.Index.Path, svc.Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexInfoCmd)

	indexBuildCmd.Flags().StringVar(&indexChunks, "chunks", "", "input chunks JSON file (required)")
	indexBuildCmd.Flags().StringVar(&indexOut, "out", "", "output index path (default: configured index path)")
	indexBuildCmd.Flags().IntVar(&indexWorkers, "workers", 4, "concurrent embedding workers")
	indexBuildCmd.Flags().DurationVar(&indexTimeout, "timeout", 30*time.Minute, "overall build timeout")
	_ = indexBuildCmd.MarkFlagRequired("chunks")
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	out := indexOut
	if out == "" {
		out = cfg.Index.Path
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("configure model provider: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("index build needs an embedding provider; set llm.provider in the config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	chunks, err := worker.ReadChunksFromFile(indexChunks)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Embedding %d chunks with %d workers...\n", len(chunks), indexWorkers)

	batch := worker.NewBatchEmbedder(provider, indexWorkers)
	results := batch.EmbedChunks(ctx, chunks)

	var records []index.Record
	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
			if verbose {
				fmt.Fprintf(os.Stderr, "  %v\n", res.GetError())
			}
			continue
		}
		records = append(records, res.Record)
	}

	if len(records) == 0 {
		return fmt.Errorf("no chunks embedded (%d failures)", failed)
	}

	dim := len(records[0].Vector)
	if err := index.WriteFile(out, cfg.LLM.EmbedModel, dim, records); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d vectors (dim %d) to %s", len(records), dim, out)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, ", %d chunks failed", failed)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
