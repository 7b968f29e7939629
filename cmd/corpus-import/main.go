// corpus-import walks a directory of .txt and .html files and ingests them
// into a collocation corpus store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/colloc/pkg/colloc"
	"github.com/cognicore/colloc/pkg/colloc/config"
	"github.com/cognicore/colloc/pkg/colloc/store/sqlite"
)

func main() {
	var (
		storePath = flag.String("store", "", "Path to SQLite store (required)")
		dir       = flag.String("dir", "", "Directory of .txt/.html documents (required)")
		stoplist  = flag.String("stoplist", "", "Optional stoplist YAML")
	)
	flag.Parse()

	if *storePath == "" {
		log.Fatal("--store required")
	}
	if *dir == "" {
		log.Fatal("--dir required")
	}

	ctx := context.Background()

	loader := config.Loader{StoplistPath: *stoplist}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	st, err := sqlite.Open(ctx, *storePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	engine := colloc.New(colloc.Options{
		Store:     st,
		Tokenizer: components.Tokenizer,
	})
	defer engine.Close()

	imported := 0
	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".html" && ext != ".htm" {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		doc := colloc.Doc{
			URI:      path,
			Title:    d.Name(),
			BodyText: string(body),
			HTML:     ext != ".txt",
		}
		if err := engine.Ingest(ctx, doc); err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		imported++
		return nil
	})
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	log.Printf("imported %d documents into %s", imported, *storePath)
}
