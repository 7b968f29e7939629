// Package colloc identifies statistically significant contiguous word
// sequences in tokenized text by comparing observed co-occurrence counts
// against counts expected under independence.
package colloc

import (
	"context"
	"strings"
	"time"

	"github.com/cognicore/colloc/pkg/colloc/ingest"
	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/measure"
	"github.com/cognicore/colloc/pkg/colloc/rank"
	"github.com/cognicore/colloc/pkg/colloc/store"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// Engine is the collocation extraction facade over a document store.
type Engine struct {
	store store.Store
	tok   *ingest.Tokenizer
}

// Options configures an Engine.
type Options struct {
	Store     store.Store
	Tokenizer *ingest.Tokenizer
}

// New creates an Engine with the given dependencies. A nil tokenizer gets
// a default one with no stopwords.
func New(opts Options) *Engine {
	tok := opts.Tokenizer
	if tok == nil {
		tok = ingest.NewTokenizer(nil)
	}
	return &Engine{store: opts.Store, tok: tok}
}

// Close cleanly shuts down the engine.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Doc is a document to be ingested.
type Doc struct {
	URI      string
	Title    string
	BodyText string
	// HTML marks BodyText as HTML; visible text is extracted first.
	HTML bool
}

// Ingest tokenizes and stores a document.
func (e *Engine) Ingest(ctx context.Context, d Doc) error {
	if e.store == nil {
		return internalerr.ErrStoreUnavailable
	}

	text := d.BodyText
	if d.HTML {
		extracted, err := ingest.ExtractText(strings.NewReader(d.BodyText))
		if err != nil {
			return err
		}
		text = extracted
	}

	return e.store.UpsertDoc(ctx, store.Doc{
		URI:     d.URI,
		Title:   d.Title,
		AddedAt: time.Now(),
		Tokens:  e.tok.Tokenize(text),
	})
}

// Request defines one collocation extraction over the stored corpus.
type Request struct {
	Sizes    []int
	Measure  measure.Kind
	MinCount int64
	Epsilon  float64
	// FeaturePatterns restricts candidates to matching tokens; empty
	// means the whole vocabulary.
	FeaturePatterns []string
	FeatureMode     vocab.MatchMode
	Workers         int
	// Save persists the ranked table as a result set.
	Save bool
}

// Collocations rebuilds the corpus stream from the stored documents, runs
// the extraction pipeline, and optionally persists the ranked table.
func (e *Engine) Collocations(ctx context.Context, req Request) (Result, error) {
	if e.store == nil {
		return Result{}, internalerr.ErrStoreUnavailable
	}

	docs, err := e.store.ListDocs(ctx)
	if err != nil {
		return Result{}, err
	}

	table := vocab.New()
	encoded := make([][]vocab.ID, 0, len(docs))
	for _, d := range docs {
		encoded = append(encoded, table.Encode(d.Tokens))
	}
	stream := vocab.Concat(encoded)

	feats, err := table.Select(req.FeaturePatterns, req.FeatureMode)
	if err != nil {
		return Result{}, err
	}

	minCount := req.MinCount
	if minCount < rank.DefaultMinCount {
		minCount = rank.DefaultMinCount
	}

	res, err := Extract(stream, feats, table, ExtractOptions{
		Sizes:    req.Sizes,
		Measure:  req.Measure,
		MinCount: minCount,
		Epsilon:  req.Epsilon,
		Workers:  req.Workers,
	})
	if err != nil {
		return Result{}, err
	}

	if req.Save {
		id, err := e.store.SaveResultSet(ctx, toResultSet(res, minCount))
		if err != nil {
			return Result{}, err
		}
		res.ResultSetID = id
	}
	return res, nil
}

func toResultSet(res Result, minCount int64) store.ResultSet {
	rows := make([]store.ResultRow, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = store.ResultRow{
			Word1: r.Words[0],
			Word2: r.Words[1],
			Word3: r.Words[2],
			Count: r.Count,
			Score: r.Score(res.By),
		}
	}
	return store.ResultSet{
		Measure:  res.By.String(),
		MinCount: minCount,
		Rows:     rows,
	}
}
