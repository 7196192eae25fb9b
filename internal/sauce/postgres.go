package sauce

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/game"
)

// PostgresStore backs the PuzzleSource with a pgx connection pool. Reports
// increment a counter; a sauce is banned once the counter reaches the
// configured threshold and stops being served.
type PostgresStore struct {
	pool         *pgxpool.Pool
	banThreshold int
}

func NewPostgresStore(ctx context.Context, connString string, banThreshold int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &PostgresStore{pool: pool, banThreshold: banThreshold}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) GetRandom(ctx context.Context) (*game.Puzzle, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, type, COALESCE(image_url, ''), COALESCE(quote, ''), answer, original_answer
		FROM sauces
		WHERE NOT banned
		ORDER BY random()
		LIMIT 1`)

	var p game.Puzzle
	var typ string
	err := row.Scan(&p.ID, &typ, &p.ImageURL, &p.Quote, &p.Answer, &p.OriginalAnswer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrNoSauce
		}
		return nil, fmt.Errorf("failed to fetch random sauce: %w", err)
	}
	p.Type = game.PuzzleType(typ)
	return &p, nil
}

func (s *PostgresStore) Report(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE sauces
		SET report_count = report_count + 1,
		    banned = report_count + 1 >= $2
		WHERE id = $1`, id, s.banThreshold)
	if err != nil {
		return fmt.Errorf("failed to report sauce: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateQuote(ctx context.Context, quote, answer string) (string, error) {
	p, err := NewQuote(quote, answer)
	if err != nil {
		return "", err
	}
	return p.ID, s.insert(ctx, p)
}

func (s *PostgresStore) CreateImage(ctx context.Context, imageURL, answer string) (string, error) {
	p, err := NewImage(imageURL, answer)
	if err != nil {
		return "", err
	}
	return p.ID, s.insert(ctx, p)
}

func (s *PostgresStore) insert(ctx context.Context, p *game.Puzzle) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sauces (id, type, image_url, quote, answer, original_answer)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)`,
		p.ID, string(p.Type), p.ImageURL, p.Quote, p.Answer, p.OriginalAnswer)
	if err != nil {
		return fmt.Errorf("failed to insert sauce: %w", err)
	}
	return nil
}
