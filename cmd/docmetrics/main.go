// Command docmetrics is the CLI front end for the three scoring families:
// tokenize/edit-distance, TEDS, and multi-label layout confusion. Its
// shape — a cobra root with one subcommand per public operation, an
// optional .docmetrics.toml overlay, and the same progress-printing style
// — is ported directly from the teacher's cmd/sift/main.go.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docling-project/docling-metrics/internal/config"
	"github.com/docling-project/docling-metrics/internal/layout"
	"github.com/docling-project/docling-metrics/internal/store"
	"github.com/docling-project/docling-metrics/internal/teds"
	"github.com/docling-project/docling-metrics/internal/text"
	"github.com/docling-project/docling-metrics/internal/tui"
	"github.com/docling-project/docling-metrics/internal/watch"
)

func main() {
	cfg, err := config.Load(".docmetrics.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "docmetrics: reading .docmetrics.toml: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "docmetrics",
		Short: "Document-quality evaluation toolkit",
		Long:  "docmetrics — TEDS, token edit distance, and multi-label layout confusion scoring for document-AI pipelines.",
	}

	root.AddCommand(
		newTokenizeCmd(),
		newEditDistanceCmd(),
		newTEDSCmd(),
		newTEDSBatchCmd(cfg),
		newLayoutCmd(),
		newWatchCmd(cfg),
		newTUICmd(cfg),
		newAggregateCmd(),
		newEvaluateDatasetCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// ---- docmetrics tokenize <file> --------------------------------------------

func newTokenizeCmd() *cobra.Command {
	var convertParens bool
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Run the Penn-Treebank-style tokenizer over a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			tokens := text.New().Tokenize(string(b), convertParens)
			if asJSON {
				j, err := json.Marshal(tokens)
				if err != nil {
					return fmt.Errorf("tokenize: marshal json: %w", err)
				}
				fmt.Println(string(j))
				return nil
			}
			fmt.Println(strings.Join(tokens, " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&convertParens, "convert-parens", false, "rewrite bracket characters to -LRB-/-RRB-/... tags")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the token list as a JSON array")
	return cmd
}

// ---- docmetrics editdistance <a> <b> ---------------------------------------

func newEditDistanceCmd() *cobra.Command {
	var convertParens bool
	cmd := &cobra.Command{
		Use:   "editdistance <a> <b>",
		Short: "Tokenize two files and score their normalised edit distance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := text.New()
			a, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("editdistance: %w", err)
			}
			b, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("editdistance: %w", err)
			}
			score := m.EditDistance(m.Tokenize(string(a), convertParens), m.Tokenize(string(b), convertParens))
			fmt.Printf("%.6f\n", score)
			return nil
		},
	}
	cmd.Flags().BoolVar(&convertParens, "convert-parens", false, "rewrite bracket characters to -LRB-/-RRB-/... tags before scoring")
	return cmd
}

// ---- docmetrics teds <gt-bracket-file> <pred-bracket-file> -----------------

func newTEDSCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "teds <gt-bracket-file> <pred-bracket-file>",
		Short: "Score the Tree-Edit-Distance Similarity between two bracket-notation trees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gt, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("teds: %w", err)
			}
			pred, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("teds: %w", err)
			}
			result := teds.NewManager().EvaluateSample(id, string(gt), string(pred))
			printSampleEval(result)
			if result.ErrorID != 0 {
				return fmt.Errorf("teds: error_id %d: %s", result.ErrorID, result.ErrorMsg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "sample", "id to tag this evaluation with")
	return cmd
}

func printSampleEval(r teds.SampleEval) {
	if r.ErrorID != 0 {
		fmt.Fprintf(os.Stderr, "%s: error_id=%d %s\n", r.ID, r.ErrorID, r.ErrorMsg)
		return
	}
	fmt.Printf("%s  teds=%.6f  tree_a=%d  tree_b=%d\n", r.ID, r.TEDS, r.TreeASize, r.TreeBSize)
}

// ---- docmetrics teds-batch <jsonl-file> ------------------------------------

// batchRow is one line of the teds-batch input file: {"id","gt","pred"}.
type batchRow struct {
	ID   string `json:"id"`
	GT   string `json:"gt"`
	Pred string `json:"pred"`
}

func newTEDSBatchCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "teds-batch <jsonl-file>",
		Short: "Score a batch of {id,gt,pred} rows in parallel, persisting each result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("teds-batch: %w", err)
			}
			defer f.Close()

			var rows []batchRow
			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				var row batchRow
				if err := json.Unmarshal([]byte(line), &row); err != nil {
					return fmt.Errorf("teds-batch: parse line: %w", err)
				}
				rows = append(rows, row)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("teds-batch: %w", err)
			}

			if dbPath == "" {
				dbPath = cfg.StoreDB
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return fmt.Errorf("teds-batch: %w", err)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("teds-batch: %w", err)
			}
			defer st.Close()

			runID := uuid.NewString()
			workers := cfg.Workers
			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			results := runBatch(rows, workers)
			var failed int
			for _, r := range results {
				if err := st.Insert(runID, r); err != nil {
					return fmt.Errorf("teds-batch: %w", err)
				}
				if r.ErrorID != 0 {
					failed++
				}
			}
			fmt.Fprintf(os.Stderr, "run %s: %d samples scored, %d failed\n", runID, len(results), failed)

			mgr := teds.NewManager()
			if _, err := mgr.Aggregate(results); err != nil {
				fmt.Fprintf(os.Stderr, "teds-batch: aggregate: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (defaults to the configured store-db)")
	return cmd
}

// runBatch shards rows across a worker pool, one teds.Manager per worker
// so no label dictionary is shared across goroutines without a mutex.
func runBatch(rows []batchRow, workers int) []teds.SampleEval {
	results := make([]teds.SampleEval, len(rows))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mgr := teds.NewManager()
			for i := range jobs {
				row := rows[i]
				results[i] = mgr.EvaluateSample(row.ID, row.GT, row.Pred)
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// ---- docmetrics layout confusion / layout metrics --------------------------

func newLayoutCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "layout",
		Short: "Multi-label layout confusion scoring",
	}
	parent.AddCommand(newLayoutConfusionCmd(), newLayoutMetricsCmd())
	return parent
}

func newLayoutConfusionCmd() *cobra.Command {
	var gtPath, predPath, classesPath string
	var width, height int
	var categoriesCSV string
	var out string
	var validate string
	cmd := &cobra.Command{
		Use:   "confusion",
		Short: "Rasterise two bbox fixture files and generate a confusion matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := parseCategories(categoriesCSV)
			if err != nil {
				return fmt.Errorf("layout confusion: %w", err)
			}

			gtBoxes, err := layout.LoadBboxResolutions(gtPath)
			if err != nil {
				return fmt.Errorf("layout confusion: %w", err)
			}
			predBoxes, err := layout.LoadBboxResolutions(predPath)
			if err != nil {
				return fmt.Errorf("layout confusion: %w", err)
			}

			gtMasks := layout.Rasterize(width, height, gtBoxes, true)
			predMasks := layout.Rasterize(width, height, predBoxes, true)

			mode := layout.ValidationDisabled
			switch validate {
			case "log":
				mode = layout.ValidationLog
			case "raise":
				mode = layout.ValidationRaise
			}

			cm, err := layout.GenerateConfusionMatrix(gtMasks, predMasks, categories, mode)
			if err != nil {
				return fmt.Errorf("layout confusion: %w", err)
			}

			names := make([]string, len(categories))
			if classesPath != "" {
				classNames, err := layout.LoadClassNames(classesPath)
				if err != nil {
					return fmt.Errorf("layout confusion: %w", err)
				}
				for i, c := range categories {
					names[i] = classNames[c]
				}
			} else {
				for i, c := range categories {
					names[i] = fmt.Sprintf("class_%d", c)
				}
			}

			payload := confusionPayload{C: cm.C, Data: cm.Data, ClassNames: names}
			j, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("layout confusion: %w", err)
			}
			if out == "" {
				fmt.Println(string(j))
				return nil
			}
			return os.WriteFile(out, j, 0o644)
		},
	}
	cmd.Flags().StringVar(&gtPath, "bboxes-gt", "", "ground-truth bbox fixture YAML")
	cmd.Flags().StringVar(&predPath, "bboxes-pred", "", "predicted bbox fixture YAML")
	cmd.Flags().StringVar(&classesPath, "classes", "", "optional category id -> class name YAML map")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	cmd.Flags().StringVar(&categoriesCSV, "categories", "", "comma-separated sorted list of category ids, e.g. 0,1,2")
	cmd.Flags().StringVar(&out, "out", "", "write the confusion matrix JSON here instead of stdout")
	cmd.Flags().StringVar(&validate, "validate", "disabled", "validation mode: disabled|log|raise")
	cmd.MarkFlagRequired("bboxes-gt")
	cmd.MarkFlagRequired("bboxes-pred")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("height")
	cmd.MarkFlagRequired("categories")
	return cmd
}

// confusionPayload is the JSON form a confusion matrix is serialised to
// and read back from between `layout confusion` and `layout metrics`.
type confusionPayload struct {
	C          int       `json:"c"`
	Data       []float64 `json:"data"`
	ClassNames []string  `json:"class_names"`
}

func newLayoutMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics <confusion-json>",
		Short: "Derive precision/recall/F1 from a confusion matrix JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("layout metrics: %w", err)
			}
			var payload confusionPayload
			if err := json.Unmarshal(b, &payload); err != nil {
				return fmt.Errorf("layout metrics: %w", err)
			}
			cm := &layout.Matrix{C: payload.C, Data: payload.Data}
			m := layout.ComputeMetrics(cm, payload.ClassNames)

			fmt.Printf("mean precision: %.6f\n", m.MeanPrecision)
			fmt.Printf("mean recall:    %.6f\n", m.MeanRecall)
			fmt.Printf("mean f1:        %.6f\n", m.MeanF1)
			for _, name := range payload.ClassNames {
				fmt.Printf("  %-20s p=%.4f r=%.4f f1=%.4f\n",
					name, m.ClassesPrecision[name], m.ClassesRecall[name], m.ClassesF1[name])
			}

			if payload.C > 0 {
				collapsed, names := layout.Collapse(cm, payload.ClassNames[0])
				cc := layout.ComputeMetrics(collapsed, names)
				fmt.Printf("\ncollapsed view:\n")
				for _, name := range names {
					fmt.Printf("  %-20s p=%.4f r=%.4f f1=%.4f\n",
						name, cc.ClassesPrecision[name], cc.ClassesRecall[name], cc.ClassesF1[name])
				}
			}
			return nil
		},
	}
	return cmd
}

func parseCategories(csv string) ([]int, error) {
	if csv == "" {
		return nil, fmt.Errorf("no categories given")
	}
	parts := strings.Split(csv, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		var v int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &v); err != nil {
			return nil, fmt.Errorf("invalid category id %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ---- docmetrics watch <dir> -------------------------------------------------

func newWatchCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory of paired *.gt.bracket/*.pred.bracket files and re-score on save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.StoreDB
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			defer st.Close()

			mgr := teds.NewManager()
			debounce := time.Duration(cfg.WatchDebounce) * time.Millisecond
			w, err := watch.New(mgr, st, debounce, func(r teds.SampleEval) {
				printSampleEval(r)
			})
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			fmt.Fprintf(os.Stderr, "watching %s (run %s) — Ctrl+C to stop\n", args[0], w.RunID())

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			done := make(chan struct{})
			go func() {
				<-ctx.Done()
				close(done)
			}()
			return w.Watch(args[0], done)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (defaults to the configured store-db)")
	return cmd
}

// ---- docmetrics tui ---------------------------------------------------------

func newTUICmd(cfg config.Config) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse persisted evaluation rows interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.StoreDB
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			defer st.Close()

			rows, err := st.ListAll()
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}

			m := tui.New(rows)
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (defaults to the configured store-db)")
	return cmd
}

// ---- docmetrics aggregate / evaluate-dataset (explicit stubs) --------------

func newAggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Compute dataset-level aggregate statistics (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := teds.NewManager().Aggregate(nil)
			return err
		},
	}
}

func newEvaluateDatasetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate-dataset",
		Short: "Evaluate an entire dataset end-to-end (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := teds.NewManager().EvaluateDataset(nil)
			return err
		},
	}
}
