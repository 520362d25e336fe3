package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"upfile/internal/config"
)

const logLevelEnv = "UPFILE_LOG_LEVEL"

type levelSource int

const (
	levelFromDefault levelSource = iota
	levelFromConfig
	levelFromEnv
	levelFromFlag
)

type levelChoice struct {
	raw    string
	source levelSource
}

// chooseLogLevel picks the first non-blank value in flag, env, config order.
func chooseLogLevel(flagLevel, envLevel, configLevel string) levelChoice {
	for _, c := range []levelChoice{
		{raw: flagLevel, source: levelFromFlag},
		{raw: envLevel, source: levelFromEnv},
		{raw: configLevel, source: levelFromConfig},
	} {
		if strings.TrimSpace(c.raw) != "" {
			return c
		}
	}
	return levelChoice{source: levelFromDefault}
}

// configureLoggerForCLI installs the default slog logger for this process.
// A bad --log-level is an error. A bad env or config value falls back to
// the default level and comes back as a warning line for stderr.
func configureLoggerForCLI(flagLevel, configLevel string) (string, error) {
	choice := chooseLogLevel(flagLevel, os.Getenv(logLevelEnv), configLevel)
	level, err := parseLogLevel(choice.raw)
	if err == nil {
		slog.SetDefault(newLogger(level))
		return "", nil
	}

	var warning string
	switch choice.source {
	case levelFromFlag:
		return "", fmt.Errorf("invalid --log-level %q", choice.raw)
	case levelFromEnv:
		warning = fmt.Sprintf("warning: ignoring %s=%q, logging at %s", logLevelEnv, choice.raw, config.DefaultLogLevel)
	case levelFromConfig:
		warning = fmt.Sprintf("warning: ignoring log_level=%q from config, logging at %s", choice.raw, config.DefaultLogLevel)
	}
	fallback, _ := parseLogLevel(config.DefaultLogLevel)
	slog.SetDefault(newLogger(fallback))
	return warning, nil
}

// parseLogLevel accepts slog level names, "warning", and numeric levels.
// Blank means the configured default.
func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		value = config.DefaultLogLevel
	case "warning":
		value = "warn"
	}

	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n), nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
