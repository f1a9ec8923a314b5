package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var once sync.Once

// Configure sets up the global zerolog logger once. Unknown levels fall back to info.
func Configure(level string, out io.Writer) {
	once.Do(func() {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			lvl = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(lvl)
		zerolog.TimeFieldFormat = time.RFC3339

		if out == nil {
			out = os.Stdout
		}
		log.Logger = zerolog.New(out).With().
			Timestamp().
			Str("service", "shopping").
			Logger()
	})
}
