// Command docctl operates the document pipeline from a shell:
//
//	go run ./cmd/docctl ingest ./scans --concurrency 8
//	go run ./cmd/docctl search "warranty"
//	go run ./cmd/docctl ask <documentId> "How long is the warranty?"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docpipe-backend/internal/bootstrap"
	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/ingest"
	"docpipe-backend/internal/shared/config"
	"docpipe-backend/internal/shared/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var app *bootstrap.App
	root := &cobra.Command{
		Use:          "docctl",
		Short:        "Ingest, search and query contractor documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.Env)
			built, err := bootstrap.Build(cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			app = built
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app != nil && app.DB != nil {
				_ = app.DB.Close()
			}
			telemetry.Sync()
		},
	}

	getApp := func() *bootstrap.App { return app }
	root.AddCommand(
		newIngestCommand(getApp),
		newSearchCommand(getApp),
		newAskCommand(getApp),
		newCapabilitiesCommand(getApp),
	)
	return root
}

func newIngestCommand(app func() *bootstrap.App) *cobra.Command {
	var (
		concurrency int
		uploadedBy  string
	)
	cmd := &cobra.Command{
		Use:   "ingest <file|dir>...",
		Short: "Upload files through the ingestion pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ingest.Expand(args)
			if err != nil {
				return err
			}
			outcomes, err := ingest.Files(cmd.Context(), app().DocumentsService, paths, ingest.Options{
				Concurrency: concurrency,
				UploadedBy:  uploadedBy,
			})
			if err != nil {
				return err
			}
			failed := 0
			rows := make([]map[string]any, 0, len(outcomes))
			for _, o := range outcomes {
				row := map[string]any{"path": o.Path}
				if o.Err != nil {
					failed++
					row["error"] = o.Err.Error()
				} else {
					row["documentId"] = o.Result.Document.ID
					row["category"] = o.Result.Document.DocumentCategory
					row["fileSize"] = o.Result.Document.FileSize
				}
				rows = append(rows, row)
			}
			if err := printJSON(cmd, rows); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", ingest.DefaultConcurrency, "maximum uploads in flight")
	cmd.Flags().StringVar(&uploadedBy, "uploaded-by", "docctl", "uploader recorded on each document")
	return cmd
}

func newSearchCommand(app func() *bootstrap.App) *cobra.Command {
	var (
		limit    int
		chatMode bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stored documents by name or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if chatMode {
				res, err := app().ChatService.SearchAndChat(cmd.Context(), args[0], true)
				if err != nil {
					return err
				}
				results := documents.ToSearchResults(res.Documents)
				return printJSON(cmd, map[string]any{
					"documents":    results,
					"chatResponse": res.ChatResponse,
					"total":        len(results),
				})
			}
			docs, err := app().DocumentsService.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			results := documents.ToSearchResults(docs)
			return printJSON(cmd, map[string]any{"documents": results, "total": len(results)})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", documents.DefaultSearchLimit, "maximum results")
	cmd.Flags().BoolVar(&chatMode, "chat", false, "ask the model about the matches")
	return cmd
}

func newAskCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <documentId> <question>",
		Short: "Ask a question about one document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := app().ChatService.Ask(cmd.Context(), args[0], args[1], nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, answer)
		},
	}
}

func newCapabilitiesCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Show supported types, feature flags and counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, app().DocumentsService.Capabilities(cmd.Context()))
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
