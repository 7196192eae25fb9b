package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// appendResult appends a finished game's outcome to a plain-text results
// file. Best effort: the round loop never depends on it.
func appendResult(path, roomName, winner string, score int, entries []ScoreboardEntry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s  room %q  winner %s (%d points)\n",
		time.Now().Format("2006-01-02 15:04:05"), roomName, winner, score))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", e.Player, e.Score))
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
