package main

import (
	"context"
	"math/rand"
	"testing"

	"autoblog-go/pkg/corpus"
	"autoblog-go/pkg/keywords"
)

func openMainTestStore(t *testing.T) *corpus.Store {
	t.Helper()
	store, err := corpus.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSelectKeywordsOverrideIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	store := openMainTestStore(t)

	// An earlier run the same day already stored unused keywords.
	if err := store.SaveKeywords(ctx, []string{"쿠버네티스", "데브옵스"}, 10); err != nil {
		t.Fatalf("SaveKeywords() error: %v", err)
	}

	batch := selectKeywords(ctx, store, nil, "러스트, 웹어셈블리")

	if len(batch) != 2 || batch[0] != "러스트" || batch[1] != "웹어셈블리" {
		t.Errorf("selectKeywords() = %v, want the override keywords", batch)
	}
}

func TestSelectKeywordsCollectionPrefersStored(t *testing.T) {
	ctx := context.Background()
	store := openMainTestStore(t)

	if err := store.SaveKeywords(ctx, []string{"도커 컨테이너"}, 10); err != nil {
		t.Fatalf("SaveKeywords() error: %v", err)
	}

	collector := keywords.NewCollector("", rand.New(rand.NewSource(1)))
	batch := selectKeywords(ctx, store, collector, "")

	if len(batch) == 0 {
		t.Fatal("selectKeywords() returned no keywords")
	}
	if batch[0] != "도커 컨테이너" {
		t.Errorf("batch[0] = %q, want the stored unused keyword first", batch[0])
	}
}
