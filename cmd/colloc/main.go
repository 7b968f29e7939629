// colloc runs a collocation extraction against an imported corpus store
// and prints the ranked table as text or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/cognicore/colloc/pkg/colloc"
	"github.com/cognicore/colloc/pkg/colloc/config"
	"github.com/cognicore/colloc/pkg/colloc/rank"
	"github.com/cognicore/colloc/pkg/colloc/store/sqlite"
)

type rowJSON struct {
	Word1 string  `json:"word1"`
	Word2 string  `json:"word2"`
	Word3 string  `json:"word3,omitempty"`
	Count int64   `json:"count"`
	Score float64 `json:"score"`
}

type reportJSON struct {
	Measure     string    `json:"measure"`
	Rows        []rowJSON `json:"rows"`
	Dropped     int       `json:"dropped,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	ResultSetID string    `json:"result_set_id,omitempty"`
}

func main() {
	var (
		storePath = flag.String("store", "", "Path to SQLite store (required)")
		cfgPath   = flag.String("config", "", "Extraction config YAML")
		stoplist  = flag.String("stoplist", "", "Optional stoplist YAML")
		asJSON    = flag.Bool("json", false, "Print JSON instead of a table")
		save      = flag.Bool("save", false, "Persist the ranked table in the store")
		limit     = flag.Int("limit", 50, "Maximum rows to print (0 = all)")
	)
	flag.Parse()

	if *storePath == "" {
		log.Fatal("--store required")
	}

	ctx := context.Background()

	loader := config.Loader{ExtractionPath: *cfgPath, StoplistPath: *stoplist}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}
	cfg := components.Extraction

	st, err := sqlite.Open(ctx, *storePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	engine := colloc.New(colloc.Options{
		Store:     st,
		Tokenizer: components.Tokenizer,
	})
	defer engine.Close()

	res, err := engine.Collocations(ctx, colloc.Request{
		Sizes:           cfg.Sizes,
		Measure:         cfg.Kind(),
		MinCount:        cfg.MinCount,
		Epsilon:         cfg.Epsilon,
		FeaturePatterns: cfg.Features.Patterns,
		FeatureMode:     cfg.MatchMode(),
		Workers:         cfg.Workers,
		Save:            *save,
	})
	if err != nil {
		log.Fatalf("extract: %v", err)
	}

	rows := res.Rows
	if *limit > 0 && len(rows) > *limit {
		rows = rows[:*limit]
	}

	if *asJSON {
		printJSON(res, rows)
		return
	}

	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}
	if res.Dropped > 0 {
		log.Printf("excluded %d degenerate rows", res.Dropped)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "collocation\tcount\t%s\n", res.By)
	for _, r := range rows {
		phrase := r.Words[0] + " " + r.Words[1]
		if r.Words[2] != "" {
			phrase += " " + r.Words[2]
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4f\n", phrase, r.Count, r.Score(res.By))
	}
	tw.Flush()

	if res.ResultSetID != "" {
		log.Printf("saved result set %s", res.ResultSetID)
	}
}

func printJSON(res colloc.Result, rows []rank.Row) {
	report := reportJSON{
		Measure:     res.By.String(),
		Rows:        make([]rowJSON, len(rows)),
		Dropped:     res.Dropped,
		ResultSetID: res.ResultSetID,
	}
	for i, r := range rows {
		report.Rows[i] = rowJSON{
			Word1: r.Words[0],
			Word2: r.Words[1],
			Word3: r.Words[2],
			Count: r.Count,
			Score: r.Score(res.By),
		}
	}
	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}
