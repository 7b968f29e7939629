package vocab

// ID is a token identifier assigned by a Table. Real vocabulary entries
// receive ids starting at 1; id 0 is reserved.
type ID int64

// Boundary is the reserved sentinel id marking a document break in a
// concatenated token stream. It is never assigned to a vocabulary entry.
const Boundary ID = 0

// Table maps token strings to dense ids and back. Ids are assigned in
// first-appearance order, which keeps encoding deterministic for a given
// document order.
type Table struct {
	ids   map[string]ID
	words []string
}

// New creates an empty vocabulary table.
func New() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Add returns the id for word, assigning a new one on first sight.
// The empty string is not a valid vocabulary entry and maps to Boundary.
func (t *Table) Add(word string) ID {
	if word == "" {
		return Boundary
	}
	if id, ok := t.ids[word]; ok {
		return id
	}
	t.words = append(t.words, word)
	id := ID(len(t.words))
	t.ids[word] = id
	return id
}

// Lookup returns the id for word without assigning one.
func (t *Table) Lookup(word string) (ID, bool) {
	id, ok := t.ids[word]
	return id, ok
}

// Word resolves an id back to its string form. Boundary and unknown ids
// resolve to the empty string.
func (t *Table) Word(id ID) string {
	if id <= Boundary || int(id) > len(t.words) {
		return ""
	}
	return t.words[id-1]
}

// Len returns the number of vocabulary entries, excluding the sentinel.
func (t *Table) Len() int {
	return len(t.words)
}

// Words returns all vocabulary entries in id order.
func (t *Table) Words() []string {
	out := make([]string, len(t.words))
	copy(out, t.words)
	return out
}

// Encode converts a token sequence to ids, assigning new ids as needed.
func (t *Table) Encode(tokens []string) []ID {
	out := make([]ID, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		out = append(out, t.Add(tok))
	}
	return out
}

// Concat joins per-document id sequences into one corpus stream with the
// Boundary sentinel inserted between consecutive documents. A candidate
// n-gram can then never straddle two documents without containing the
// sentinel.
func Concat(docs [][]ID) []ID {
	total := 0
	for _, d := range docs {
		total += len(d)
	}
	if total == 0 {
		return nil
	}
	out := make([]ID, 0, total+len(docs))
	for i, d := range docs {
		if i > 0 {
			out = append(out, Boundary)
		}
		out = append(out, d...)
	}
	return out
}
