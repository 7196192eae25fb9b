package sauce

import (
	"context"
	"testing"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/game"
)

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore(3)
	if _, err := store.GetRandom(context.Background()); err != game.ErrNoSauce {
		t.Fatalf("expected ErrNoSauce from an empty store, got %v", err)
	}
}

func TestMemoryStoreCreateAndFetch(t *testing.T) {
	store := NewMemoryStore(3)
	id, err := store.CreateQuote(context.Background(), "I have a dream", "Martin Luther King")
	if err != nil {
		t.Fatalf("should be able to create quote sauce: %v", err)
	}
	if id == "" {
		t.Fatal("sauce id should not be empty")
	}

	p, err := store.GetRandom(context.Background())
	if err != nil {
		t.Fatalf("should be able to fetch sauce: %v", err)
	}
	if p.Type != game.PuzzleQuote {
		t.Fatalf("expected quote sauce, got %s", p.Type)
	}
	if p.Answer != game.Normalize("Martin Luther King") {
		t.Fatalf("answer should be normalized on ingest, got %q", p.Answer)
	}
	if p.OriginalAnswer != "Martin Luther King" {
		t.Fatalf("original answer should keep its spelling, got %q", p.OriginalAnswer)
	}
}

func TestMemoryStoreValidation(t *testing.T) {
	store := NewMemoryStore(3)
	ctx := context.Background()
	if _, err := store.CreateQuote(ctx, "", "answer"); err != ErrMissingQuote {
		t.Fatalf("expected ErrMissingQuote, got %v", err)
	}
	if _, err := store.CreateQuote(ctx, "quote", ""); err != ErrMissingAnswer {
		t.Fatalf("expected ErrMissingAnswer, got %v", err)
	}
	if _, err := store.CreateImage(ctx, "", "answer"); err != ErrMissingImageURL {
		t.Fatalf("expected ErrMissingImageURL, got %v", err)
	}
}

func TestMemoryStoreReportBansSauce(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()
	id, err := store.CreateImage(ctx, "https://example.com/sauce.jpg", "Paris")
	if err != nil {
		t.Fatalf("should be able to create image sauce: %v", err)
	}

	if err := store.Report(ctx, id); err != nil {
		t.Fatalf("report should succeed: %v", err)
	}
	if _, err := store.GetRandom(ctx); err != nil {
		t.Fatalf("one report below the threshold must not ban: %v", err)
	}

	if err := store.Report(ctx, id); err != nil {
		t.Fatalf("report should succeed: %v", err)
	}
	if _, err := store.GetRandom(ctx); err != game.ErrNoSauce {
		t.Fatalf("a banned sauce must not be served, got %v", err)
	}
}
