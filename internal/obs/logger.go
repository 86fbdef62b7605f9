package obs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitLogger initializes the global logger.
// The TUI owns stdout and stderr, so records go to the file at path; an
// empty path discards them. The returned closer releases the file.
func InitLogger(level, path string) (io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if path == "" {
		log.Logger = zerolog.New(io.Discard)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	var out io.Writer = f
	if os.Getenv("PRODPICK_LOG_PRETTY") != "" {
		out = zerolog.ConsoleWriter{Out: f, NoColor: true}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	return f, nil
}

// Logger returns a new logger with the given component name
func Logger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
