package ingest

import (
	"io"

	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// Pipeline couples a tokenizer with a vocabulary table so documents can
// be turned directly into token-id sequences.
type Pipeline struct {
	tokenizer *Tokenizer
	vocab     *vocab.Table
}

// NewPipeline creates a pipeline over the given tokenizer and vocabulary.
func NewPipeline(tokenizer *Tokenizer, table *vocab.Table) *Pipeline {
	return &Pipeline{tokenizer: tokenizer, vocab: table}
}

// Vocab exposes the underlying vocabulary table.
func (p *Pipeline) Vocab() *vocab.Table {
	return p.vocab
}

// Process tokenizes one document and encodes it to ids, growing the
// vocabulary as new tokens appear.
func (p *Pipeline) Process(text string) []vocab.ID {
	return p.vocab.Encode(p.tokenizer.Tokenize(text))
}

// ProcessHTML extracts visible text from an HTML document and processes it.
func (p *Pipeline) ProcessHTML(r io.Reader) ([]vocab.ID, error) {
	text, err := ExtractText(r)
	if err != nil {
		return nil, err
	}
	return p.Process(text), nil
}

// Stream processes multiple documents and joins them with the boundary
// sentinel into a single corpus stream.
func (p *Pipeline) Stream(texts []string) []vocab.ID {
	docs := make([][]vocab.ID, 0, len(texts))
	for _, text := range texts {
		docs = append(docs, p.Process(text))
	}
	return vocab.Concat(docs)
}
