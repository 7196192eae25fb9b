// Package sauce stores and serves the puzzles ("sauces") rooms play with.
package sauce

import (
	"errors"

	"github.com/google/uuid"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/game"
)

var (
	ErrMissingQuote    = errors.New("Empty or missing \"quote\" field")
	ErrMissingImageURL = errors.New("Empty or missing \"imageUrl\" field")
	ErrMissingAnswer   = errors.New("Empty or missing \"answer\" field")
)

// NewQuote builds a quote sauce. The answer is normalized on ingest so
// grading compares canonical forms; the original spelling is kept for the
// end-of-round reveal.
func NewQuote(quote, answer string) (*game.Puzzle, error) {
	if quote == "" {
		return nil, ErrMissingQuote
	}
	if answer == "" {
		return nil, ErrMissingAnswer
	}
	return &game.Puzzle{
		ID:             uuid.NewString(),
		Type:           game.PuzzleQuote,
		Quote:          quote,
		Answer:         game.Normalize(answer),
		OriginalAnswer: answer,
	}, nil
}

// NewImage builds an image sauce from an already-hosted image URL. Binary
// upload and transcoding live outside this service.
func NewImage(imageURL, answer string) (*game.Puzzle, error) {
	if imageURL == "" {
		return nil, ErrMissingImageURL
	}
	if answer == "" {
		return nil, ErrMissingAnswer
	}
	return &game.Puzzle{
		ID:             uuid.NewString(),
		Type:           game.PuzzleImage,
		ImageURL:       imageURL,
		Answer:         game.Normalize(answer),
		OriginalAnswer: answer,
	}, nil
}
