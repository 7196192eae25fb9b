package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string

	WinningScore         int
	RoundDurationSeconds int
	TimeBetweenRounds    int // seconds
	CloseThreshold       int
	ReportBanThreshold   int
	ResultsFile          string

	SaucePostsPerHour int
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "4242")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.WinningScore = getenvInt("WINNING_SCORE", 100)
	c.RoundDurationSeconds = getenvInt("ROUND_DURATION_SECONDS", 25)
	c.TimeBetweenRounds = getenvInt("TIME_BETWEEN_ROUNDS_SECONDS", 4)
	c.CloseThreshold = getenvInt("CLOSE_THRESHOLD", 2)
	c.ReportBanThreshold = getenvInt("REPORT_BAN_THRESHOLD", 3)
	c.ResultsFile = os.Getenv("RESULTS_FILE")
	c.SaucePostsPerHour = getenvInt("SAUCE_POSTS_PER_HOUR", 60)
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
