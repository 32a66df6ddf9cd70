package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
)

// Logger is the root logger a host owns. Engine components only ever see
// the named *zap.Logger children it hands out.
type Logger struct {
	*zap.Logger
}

// Config selects level, encoding and sinks
type Config struct {
	Level       string
	Development bool
	// OutputPaths are zap sink URLs or file paths. Empty means stdout.
	OutputPaths []string
}

// FromConfig maps the logging section of the navigation config. The
// terminal demo passes a file because stdout is the screen.
func FromConfig(c config.LogConfig, outputs ...string) Config {
	return Config{Level: c.Level, Development: c.Development, OutputPaths: outputs}
}

// New builds the logger core directly so the sinks, encoder and level come
// from one place
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level, cfg.Development)
	if err != nil {
		return nil, err
	}

	paths := cfg.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stdout"}
	}
	sink, _, err := zap.Open(paths...)
	if err != nil {
		return nil, fmt.Errorf("open log outputs: %w", err)
	}
	errSink, _, err := zap.Open("stderr")
	if err != nil {
		return nil, fmt.Errorf("open error output: %w", err)
	}

	opts := []zap.Option{zap.ErrorOutput(errSink), zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.DPanicLevel))
	}

	core := zapcore.NewCore(newEncoder(cfg.Development), sink, level)
	return &Logger{Logger: zap.New(core, opts...)}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Named returns a child scoped to component
func (l *Logger) Named(component string) *zap.Logger {
	if l == nil || l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger.Named(component)
}

// OrNop returns logger, or a no-op logger when it is nil
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// parseLevel defaults to debug in development and info otherwise
func parseLevel(level string, development bool) (zapcore.Level, error) {
	if level == "" {
		if development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

func newEncoder(development bool) zapcore.Encoder {
	if development {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(enc)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	return zapcore.NewJSONEncoder(enc)
}
