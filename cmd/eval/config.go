package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/spec"
)

type cliConfig struct {
	Mode        string
	SpecPath    string
	QrelsPath   string
	StoreType   string
	Connection  string
	Collection  string
	TopK        int
	Warmup      int
	Concurrency int
	AllQueries  bool
	ResultsPath string
	VectorsPath string
	Recreate    bool
	BatchSize   int
	ClicksPath  string
	ClicksPg    string
	Output      string
	Verbose     bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Mode, "mode", "eval", "Run mode: eval, score, qrels, setup, or clicks")
	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to eval spec YAML (multi-job mode)")
	flag.StringVar(&cfg.QrelsPath, "qrels", "data/fire_msrvtt_annotations.json", "Path to relevance annotations (quick mode)")
	flag.StringVar(&cfg.StoreType, "store", spec.StoreMilvus, "Store type for quick mode: milvus, qdrant, pgvector, elasticsearch, memory, or api")
	flag.StringVar(&cfg.Connection, "conn", "localhost:19530", "Store connection (address, DSN, URL or vectors file)")
	flag.StringVar(&cfg.Collection, "collection", "", "Collection, table or index name")
	flag.IntVar(&cfg.TopK, "k", spec.DefaultTopK, "Number of results to retrieve per query")
	flag.IntVar(&cfg.Warmup, "warmup", 0, "Number of warmup calls per query before measurement")
	flag.IntVar(&cfg.Concurrency, "concurrency", spec.DefaultConcurrency, "Number of queries in flight")
	flag.BoolVar(&cfg.AllQueries, "all-queries", false, "Evaluate queries with several relevant videos too")
	flag.StringVar(&cfg.ResultsPath, "results", "", "Raw results JSON (score mode)")
	flag.StringVar(&cfg.VectorsPath, "vectors", "", "Frame embeddings JSON to index (setup mode)")
	flag.BoolVar(&cfg.Recreate, "recreate", false, "Drop the collection before creating it (setup mode)")
	flag.IntVar(&cfg.BatchSize, "batch", 1000, "Insert batch size (setup mode)")
	flag.StringVar(&cfg.ClicksPath, "clicks", "query_click_logs.json", "Click log JSONL file (clicks mode)")
	flag.StringVar(&cfg.ClicksPg, "clicks-pg", "", "Read click log from PostgreSQL instead of a file")
	flag.StringVar(&cfg.Output, "output", "", "Output path for the JSON report")
	flag.BoolVar(&cfg.Verbose, "v", false, "Debug logging")

	flag.Parse()
	return cfg
}

// quickSpec builds a single-job spec from flags.
func (c cliConfig) quickSpec() (*spec.EvalSpec, error) {
	if c.QrelsPath == "" {
		return nil, fmt.Errorf("quick mode requires --qrels")
	}

	name := strings.ToLower(c.StoreType)
	es := &spec.EvalSpec{
		Jobs: []spec.Job{{
			Name:       "quick",
			Qrels:      c.QrelsPath,
			Stores:     []string{name},
			TopK:       c.TopK,
			AllQueries: c.AllQueries,
			Output:     c.Output,
		}},
		Stores: map[string]spec.Store{
			name: {Type: name, Connection: c.Connection, Collection: c.Collection},
		},
		Runs: spec.RunsConfig{Warmup: c.Warmup, Concurrency: c.Concurrency},
	}
	if err := es.Validate(); err != nil {
		return nil, err
	}
	return es, nil
}
