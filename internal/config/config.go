package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cartographer/internal/notify"
)

//go:embed schema.cue
var schemaCUE []byte

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CARTOGRAPHER_"

// Config is the merged runtime configuration.
type Config struct {
	Database string  `yaml:"database" json:"database" env:"DATABASE"`
	LogLevel string  `yaml:"log_level" json:"log_level" env:"LOG_LEVEL"`
	Journal  Journal `yaml:"journal" json:"journal" envPrefix:"JOURNAL_"`
	Notify   Notify  `yaml:"notify" json:"notify" envPrefix:"NOTIFY_"`
}

// Journal locates the game's journal files.
type Journal struct {
	Dir string `yaml:"dir" json:"dir" env:"DIR"`
}

// Notify configures the live notification fan-out. Empty values disable
// the corresponding sink.
type Notify struct {
	NATSURL     string `yaml:"nats_url" json:"nats_url" env:"NATS_URL"`
	NATSSubject string `yaml:"nats_subject" json:"nats_subject" env:"NATS_SUBJECT"`
	Listen      string `yaml:"listen" json:"listen" env:"LISTEN"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: "cartographer.db",
		LogLevel: "info",
		Notify: Notify{
			NATSSubject: notify.DefaultSubject,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. A nil environ reads the process
// environment. The result is validated.
func Load(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against the embedded schema.
func (c Config) Validate() error {
	cctx := cuecontext.New()
	schema := cctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(cctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Errs: cueerrors.Errors(err)}
	}
	return nil
}

// ValidationError lists every schema violation.
type ValidationError struct {
	Errs []cueerrors.Error
}

func (e *ValidationError) Error() string {
	if len(e.Errs) == 1 {
		return "invalid config: " + formatCUEError(e.Errs[0])
	}
	msg := fmt.Sprintf("invalid config (%d errors):", len(e.Errs))
	for _, err := range e.Errs {
		msg += "\n  " + formatCUEError(err)
	}
	return msg
}

func formatCUEError(err cueerrors.Error) string {
	format, args := err.Msg()
	msg := fmt.Sprintf(format, args...)
	if p := err.Path(); len(p) > 0 {
		return strings.Join(p, ".") + ": " + msg
	}
	return msg
}

// IsValidation reports whether err is a schema violation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
