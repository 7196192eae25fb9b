package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/api"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/config"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/game"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/sauce"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/sauce/migrations"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/ws"
	staticserver "github.com/AmiralBl3ndic/Vinaigrette/static"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Vinaigrette - Real-time multiplayer guessing game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 4242 or PORT env var)

Environment Variables:
  PORT                         Port to listen on (default: 4242)
  DATABASE_URL                 Postgres connection string (in-memory sauces when unset)
  WINNING_SCORE                Score needed to win a game (default: 100)
  ROUND_DURATION_SECONDS       Length of a round (default: 25)
  TIME_BETWEEN_ROUNDS_SECONDS  Pause between rounds (default: 4)
  CLOSE_THRESHOLD              Edit distance still reported as "close" (default: 2)
  REPORT_BAN_THRESHOLD         Reports before a sauce is banned (default: 3)
  RESULTS_FILE                 Append finished game results there (disabled when unset)
  SAUCE_POSTS_PER_HOUR         Per-IP rate limit on sauce submissions (default: 60)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Vinaigrette %s\n", version)
		return
	}

	_ = godotenv.Load()

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Sauce store: Postgres when configured, in-memory otherwise
	var source game.PuzzleSource
	var store api.SauceStore
	if cfg.DatabaseURL != "" {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			zerologlog.Fatal().Err(err).Msg("migrations failed")
		}
		pg, err := sauce.NewPostgresStore(context.Background(), cfg.DatabaseURL, cfg.ReportBanThreshold)
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pg.Close()
		source, store = pg, pg
	} else {
		zerologlog.Warn().Msg("DATABASE_URL not set, sauces are kept in memory only")
		mem := sauce.NewMemoryStore(cfg.ReportBanThreshold)
		source, store = mem, mem
	}

	// Socket server + room registry
	registry := game.NewRegistry()
	sock := ws.New(registry, source, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Sauce submission API
	api.Register(r, store, cfg.SaucePostsPerHour)

	// Serve the embedded client for everything else
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	zerologlog.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}
