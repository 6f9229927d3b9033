package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

// ErrDataFileMissing indicates the configured import file does not exist.
// Callers map this to a client error rather than a server fault.
var ErrDataFileMissing = errors.New("import data file not found")

// ReplyStore is the slice of the knowledge store the import job needs.
type ReplyStore interface {
	InsertReply(ctx context.Context, r knowledge.Reply) error
}

// Importer loads community replies from a JSON file into the knowledge base.
// Imported rows start without embeddings; a backfill run vectorizes them.
type Importer struct {
	store    ReplyStore
	logger   *slog.Logger
	dataFile string
}

// NewImporter wires an import job reading from the given file path.
func NewImporter(store ReplyStore, dataFile string, logger *slog.Logger) (*Importer, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if dataFile == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Importer{store: store, dataFile: dataFile, logger: logger}, nil
}

// Run reads the data file and inserts every reply it contains, reporting
// how many rows were inserted.
//
// Per-row insert failures are logged and skipped so one bad row never loses
// the rest of the file; rows already inserted stay inserted, so a re-run
// duplicates them. The file format is a JSON array of reply objects.
func (i *Importer) Run(ctx context.Context) (int, error) {
	raw, err := os.ReadFile(i.dataFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrDataFileMissing, i.dataFile)
		}
		return 0, fmt.Errorf("reading data file: %w", err)
	}

	var replies []knowledge.Reply
	if err := json.Unmarshal(raw, &replies); err != nil {
		return 0, fmt.Errorf("parsing data file: %w", err)
	}

	inserted := 0
	for idx, r := range replies {
		if err := i.store.InsertReply(ctx, r); err != nil {
			i.logger.Warn("skipping reply, insert failed",
				"index", idx, "error", err)
			continue
		}
		inserted++
	}

	i.logger.Info("import finished",
		"file", i.dataFile, "total", len(replies), "inserted", inserted)
	return inserted, nil
}
