package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/config"
	"github.com/RowanDark/cribdrag/internal/logging"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// tableFlags binds -mode and -policy, defaulting to the configured values.
type tableFlags struct {
	mode   *string
	policy *string
}

func addTableFlags(fs *flag.FlagSet, cfg config.Config) tableFlags {
	return tableFlags{
		mode:   fs.String("mode", cfg.Mode, "code table: merged, letters or figures"),
		policy: fs.String("policy", cfg.Policy, "unknown symbol policy: lenient or strict"),
	}
}

func (tf tableFlags) apply(cfg *config.Config) {
	cfg.Mode = *tf.mode
	cfg.Policy = *tf.policy
}

func (tf tableFlags) table() (*baudot.Table, error) {
	cfg := config.Default()
	tf.apply(&cfg)
	return cfg.Table()
}

func loadConfig() (config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return config.Config{}, false
	}
	return cfg, true
}

// openAudit returns the configured audit trail, or one that discards events
// when no audit_log is set.
func openAudit(cfg config.Config) (*logging.AuditLogger, error) {
	if cfg.AuditLog == "" {
		return logging.Discard(), nil
	}
	opts := []logging.Option{logging.WithoutStdout(), logging.WithFile(cfg.AuditLog)}
	if cfg.AuditPlaintext {
		opts = append(opts, logging.WithPlaintext())
	}
	return logging.NewAuditLogger("cribctl", opts...)
}

// argOrStdin joins the positional arguments, or reads stdin when there are
// none or the only one is "-".
func argOrStdin(args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		return 1
	}
	return 0
}
