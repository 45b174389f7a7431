package index

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/finsight/ai/mock"
	"github.com/poiesic/finsight/core"
)

// fakeStore is an in-memory stand-in for the Qdrant REST surface the
// client touches: collection create/get/delete, point upsert and search.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string][]point
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: map[string][]point{}}
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		rest := strings.TrimPrefix(r.URL.Path, "/collections/")
		parts := strings.Split(rest, "/")
		name := parts[0]

		switch {
		case len(parts) == 1 && r.Method == http.MethodPut:
			if _, ok := f.collections[name]; !ok {
				f.collections[name] = nil
			}
			writeResult(w, map[string]any{"result": true})

		case len(parts) == 1 && r.Method == http.MethodGet:
			points, ok := f.collections[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			writeResult(w, map[string]any{"result": map[string]any{
				"status":       "green",
				"points_count": len(points),
			}})

		case len(parts) == 1 && r.Method == http.MethodDelete:
			if _, ok := f.collections[name]; !ok {
				http.NotFound(w, r)
				return
			}
			delete(f.collections, name)
			writeResult(w, map[string]any{"result": true})

		case len(parts) == 2 && parts[1] == "points" && r.Method == http.MethodPut:
			if _, ok := f.collections[name]; !ok {
				http.NotFound(w, r)
				return
			}
			var body struct {
				Points []point `json:"points"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			// Replace by ID, append the rest.
			for _, incoming := range body.Points {
				replaced := false
				for i, existing := range f.collections[name] {
					if existing.ID == incoming.ID {
						f.collections[name][i] = incoming
						replaced = true
						break
					}
				}
				if !replaced {
					f.collections[name] = append(f.collections[name], incoming)
				}
			}
			writeResult(w, map[string]any{"result": map[string]any{"status": "completed"}})

		case len(parts) == 3 && parts[1] == "points" && parts[2] == "search" && r.Method == http.MethodPost:
			points, ok := f.collections[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			var body struct {
				Vector []float32 `json:"vector"`
				Limit  int       `json:"limit"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			hits := make([]map[string]any, 0, len(points))
			for _, p := range points {
				hits = append(hits, map[string]any{
					"score":   cosine(body.Vector, p.Vector),
					"payload": p.Payload,
				})
			}
			// Highest score first.
			for i := 0; i < len(hits); i++ {
				for j := i + 1; j < len(hits); j++ {
					if hits[j]["score"].(float64) > hits[i]["score"].(float64) {
						hits[i], hits[j] = hits[j], hits[i]
					}
				}
			}
			if body.Limit > 0 && len(hits) > body.Limit {
				hits = hits[:body.Limit]
			}
			writeResult(w, map[string]any{"result": hits})

		default:
			http.Error(w, "unexpected route", http.StatusTeapot)
		}
	})
	return mux
}

func writeResult(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		if i < len(b) {
			dot += float64(a[i]) * float64(b[i])
		}
	}
	return dot
}

func newTestIndex(t *testing.T) (*KnowledgeIndex, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	srv := httptest.NewServer(store.handler())
	t.Cleanup(srv.Close)

	client := &Client{baseURL: srv.URL, client: srv.Client()}
	idx, err := NewKnowledgeIndex(mock.NewMockEmbedder(), client)
	require.NoError(t, err)
	return idx, store
}

func TestNewKnowledgeIndex(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewKnowledgeIndex(nil, NewClient())
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := NewKnowledgeIndex(mock.NewMockEmbedder(), nil)
		assert.ErrorIs(t, err, ErrClientRequired)
	})
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch is a no-op", func(t *testing.T) {
		idx, store := newTestIndex(t)
		count, err := idx.Upsert(ctx, "company_acme", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Empty(t, store.collections, "no collection should be created for an empty batch")
	})

	t.Run("creates collection and writes points", func(t *testing.T) {
		idx, store := newTestIndex(t)
		fragments := []core.ContentFragment{
			{Text: "Revenue grew 12% in Q3.", Kind: core.SourceNews, EntityName: "Acme Corp", Origin: "https://news.example.com/a"},
			{Text: "Operating margin was 18%.", Kind: core.SourceFinancialReport, EntityName: "Acme Corp", Origin: "/tmp/report.pdf", Page: 4},
		}
		count, err := idx.Upsert(ctx, "company_acme", fragments)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Len(t, store.collections["company_acme"], 2)
	})

	t.Run("re-ingesting identical content does not duplicate", func(t *testing.T) {
		idx, store := newTestIndex(t)
		fragments := []core.ContentFragment{
			{Text: "Revenue grew 12% in Q3.", Kind: core.SourceNews, EntityName: "Acme Corp", Origin: "https://news.example.com/a"},
		}
		_, err := idx.Upsert(ctx, "company_acme", fragments)
		require.NoError(t, err)
		_, err = idx.Upsert(ctx, "company_acme", fragments)
		require.NoError(t, err)
		assert.Len(t, store.collections["company_acme"], 1)
	})

	t.Run("invalid fragment is rejected before any write", func(t *testing.T) {
		idx, store := newTestIndex(t)
		fragments := []core.ContentFragment{
			{Text: "", Kind: core.SourceNews, EntityName: "Acme Corp"},
		}
		_, err := idx.Upsert(ctx, "company_acme", fragments)
		assert.ErrorIs(t, err, core.ErrEmptyFragmentText)
		assert.Empty(t, store.collections)
	})

	t.Run("empty collection id", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		_, err := idx.Upsert(ctx, "", []core.ContentFragment{{Text: "x", Kind: core.SourceNews, EntityName: "A"}})
		assert.ErrorIs(t, err, ErrEmptyCollectionID)
	})

	t.Run("unreachable store surfaces index unavailable", func(t *testing.T) {
		client := NewClient(WithHost("127.0.0.1"), WithPort(1), WithTimeout(200*time.Millisecond))
		idx, err := NewKnowledgeIndex(mock.NewMockEmbedder(), client)
		require.NoError(t, err)

		_, err = idx.Upsert(ctx, "company_acme", []core.ContentFragment{
			{Text: "x", Kind: core.SourceNews, EntityName: "Acme"},
		})
		assert.True(t, core.IsIndexUnavailable(err))
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("missing collection yields empty result", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		fragments, err := idx.Search(ctx, "company_ghost", "anything", 5)
		require.NoError(t, err)
		assert.Empty(t, fragments)
	})

	t.Run("round-trips fragment payloads", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		published := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		written := []core.ContentFragment{
			{
				Text:        "Acme shares rallied after earnings.",
				Kind:        core.SourceNews,
				EntityName:  "Acme Corp",
				Origin:      "https://news.example.com/rally",
				Title:       "Acme Rallies",
				PublishedAt: &published,
			},
			{
				Text:       "Financial Table (Page 2):\n   Year  Revenue\n   2025     10.5",
				Kind:       core.SourceFinancialTable,
				EntityName: "Acme Corp",
				Origin:     "/tmp/report.pdf",
				Page:       2,
				TableIndex: 0,
				Headers:    []string{"Year", "Revenue"},
			},
		}
		_, err := idx.Upsert(ctx, "company_acme", written)
		require.NoError(t, err)

		got, err := idx.Search(ctx, "company_acme", "Acme earnings rally", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)

		byKind := map[core.SourceKind]core.ContentFragment{}
		for _, frag := range got {
			byKind[frag.Kind] = frag
		}

		news := byKind[core.SourceNews]
		assert.Equal(t, "Acme shares rallied after earnings.", news.Text)
		assert.Equal(t, "Acme Rallies", news.Title)
		require.NotNil(t, news.PublishedAt)
		assert.True(t, published.Equal(*news.PublishedAt))

		table := byKind[core.SourceFinancialTable]
		assert.Equal(t, 2, table.Page)
		assert.Equal(t, []string{"Year", "Revenue"}, table.Headers)
	})

	t.Run("respects the limit", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		fragments := make([]core.ContentFragment, 8)
		for i := range fragments {
			fragments[i] = core.ContentFragment{
				Text:       "fragment number " + string(rune('a'+i)),
				Kind:       core.SourceNews,
				EntityName: "Acme",
			}
		}
		_, err := idx.Upsert(ctx, "company_acme", fragments)
		require.NoError(t, err)

		got, err := idx.Search(ctx, "company_acme", "fragment", 3)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("unreachable store surfaces index unavailable", func(t *testing.T) {
		client := NewClient(WithHost("127.0.0.1"), WithPort(1), WithTimeout(200*time.Millisecond))
		idx, err := NewKnowledgeIndex(mock.NewMockEmbedder(), client)
		require.NoError(t, err)

		_, err = idx.Search(ctx, "company_acme", "anything", 5)
		assert.True(t, core.IsIndexUnavailable(err))
	})
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()

	t.Run("absent collection reports nil", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		info, err := idx.Describe(ctx, "company_ghost")
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("reports point count and status", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		_, err := idx.Upsert(ctx, "company_acme", []core.ContentFragment{
			{Text: "one", Kind: core.SourceNews, EntityName: "Acme"},
			{Text: "two", Kind: core.SourceNews, EntityName: "Acme"},
		})
		require.NoError(t, err)

		info, err := idx.Describe(ctx, "company_acme")
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "company_acme", info.CollectionID)
		assert.Equal(t, 2, info.PointCount)
		assert.Equal(t, "green", info.Status)
	})
}

func TestDrop(t *testing.T) {
	ctx := context.Background()

	t.Run("dropping an absent collection is not an error", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		existed, err := idx.Drop(ctx, "company_ghost")
		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("drop removes the collection", func(t *testing.T) {
		idx, _ := newTestIndex(t)
		_, err := idx.Upsert(ctx, "company_acme", []core.ContentFragment{
			{Text: "one", Kind: core.SourceNews, EntityName: "Acme"},
		})
		require.NoError(t, err)

		existed, err := idx.Drop(ctx, "company_acme")
		require.NoError(t, err)
		assert.True(t, existed)

		info, err := idx.Describe(ctx, "company_acme")
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("delete answered with result false reports not existed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"result": false})
		}))
		t.Cleanup(srv.Close)

		client := &Client{baseURL: srv.URL, client: srv.Client()}
		idx, err := NewKnowledgeIndex(mock.NewMockEmbedder(), client)
		require.NoError(t, err)

		existed, err := idx.Drop(ctx, "company_ghost")
		require.NoError(t, err)
		assert.False(t, existed)
	})
}
