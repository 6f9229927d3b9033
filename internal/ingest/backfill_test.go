package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
	"github.com/atlasdesk/atlasdesk/internal/log"
)

type fakePendingStore struct {
	pending  []knowledge.Document
	listErr  error
	setCalls int
	failIDs  map[int64]error
}

func (f *fakePendingStore) ListPending(_ context.Context, limit int32) ([]knowledge.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if int32(len(f.pending)) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakePendingStore) SetEmbedding(_ context.Context, source string, id int64, _ []float32) error {
	if err, ok := f.failIDs[id]; ok {
		return err
	}
	for i, doc := range f.pending {
		if doc.Source == source && doc.ID == id {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			break
		}
	}
	f.setCalls++
	return nil
}

type fakeEmbedder struct {
	texts    []string
	failText string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.failText != "" && text == f.failText {
		return nil, errors.New("embedding rejected")
	}
	f.texts = append(f.texts, text)
	return []float32{0.1, 0.2}, nil
}

func strPtr(s string) *string { return &s }

func TestBackfiller_Run(t *testing.T) {
	store := &fakePendingStore{pending: []knowledge.Document{
		{ID: 1, Title: strPtr("Guide"), Content: "body one", Source: knowledge.SourceHandbook},
		{ID: 2, Title: nil, Content: "body two", Source: knowledge.SourceCommunity},
	}}
	embedder := &fakeEmbedder{}

	b, err := NewBackfiller(store, embedder, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}

	updated, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}

	// Titled rows embed title plus content; untitled rows content alone.
	if embedder.texts[0] != "Guide\nbody one" {
		t.Errorf("embedded text = %q", embedder.texts[0])
	}
	if embedder.texts[1] != "body two" {
		t.Errorf("embedded text = %q", embedder.texts[1])
	}
}

func TestBackfiller_DrainsBacklogLargerThanBatch(t *testing.T) {
	store := &fakePendingStore{pending: []knowledge.Document{
		{ID: 1, Content: "one", Source: knowledge.SourceHandbook},
		{ID: 2, Content: "two", Source: knowledge.SourceHandbook},
		{ID: 3, Content: "three", Source: knowledge.SourceHandbook},
		{ID: 4, Content: "four", Source: knowledge.SourceCommunity},
		{ID: 5, Content: "five", Source: knowledge.SourceCommunity},
	}}

	b, err := NewBackfiller(store, &fakeEmbedder{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}
	b.limit = 2

	updated, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updated != 5 {
		t.Errorf("updated = %d, want 5", updated)
	}
	if len(store.pending) != 0 {
		t.Errorf("pending rows remaining = %d, want 0", len(store.pending))
	}
}

func TestBackfiller_StopsWhenOnlyFailingRowsRemain(t *testing.T) {
	store := &fakePendingStore{
		pending: []knowledge.Document{
			{ID: 1, Content: "ok", Source: knowledge.SourceHandbook},
			{ID: 2, Content: "stuck", Source: knowledge.SourceHandbook},
		},
		failIDs: map[int64]error{2: errors.New("row locked")},
	}

	b, err := NewBackfiller(store, &fakeEmbedder{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}
	b.limit = 1

	updated, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}
	if len(store.pending) != 1 || store.pending[0].ID != 2 {
		t.Errorf("pending = %+v, want only the failing row", store.pending)
	}
}

func TestBackfiller_SkipsFailedRows(t *testing.T) {
	store := &fakePendingStore{
		pending: []knowledge.Document{
			{ID: 1, Content: "ok one", Source: knowledge.SourceHandbook},
			{ID: 2, Content: "bad", Source: knowledge.SourceHandbook},
			{ID: 3, Content: "ok two", Source: knowledge.SourceCommunity},
		},
	}
	embedder := &fakeEmbedder{failText: "bad"}

	b, err := NewBackfiller(store, embedder, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}

	updated, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2 (one row skipped)", updated)
	}
}

func TestBackfiller_SkipsFailedUpdate(t *testing.T) {
	store := &fakePendingStore{
		pending: []knowledge.Document{
			{ID: 1, Content: "one", Source: knowledge.SourceHandbook},
			{ID: 2, Content: "two", Source: knowledge.SourceHandbook},
		},
		failIDs: map[int64]error{2: errors.New("row vanished")},
	}

	b, err := NewBackfiller(store, &fakeEmbedder{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}

	updated, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}
}

func TestBackfiller_ListFailureAborts(t *testing.T) {
	store := &fakePendingStore{listErr: errors.New("connection refused")}

	b, err := NewBackfiller(store, &fakeEmbedder{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}

	if _, err := b.Run(context.Background()); err == nil {
		t.Fatal("Run() = nil error, want error")
	}
}

func TestBackfiller_EmptyBacklog(t *testing.T) {
	b, err := NewBackfiller(&fakePendingStore{}, &fakeEmbedder{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewBackfiller() error = %v", err)
	}

	updated, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}
}
