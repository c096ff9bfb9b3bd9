package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init builds the process logger and installs it as zap's global.
// Output goes to a timestamped file under dir because the TUI owns the
// terminal. If the file cannot be created, output goes to fallback; a nil
// fallback discards it.
func Init(level, dir string, fallback io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrapf(err, "logger: parse level %q", level)
	}

	mu.Lock()
	defer mu.Unlock()

	if fallback == nil {
		fallback = io.Discard
	}
	closeFileLocked()
	sink := zapcore.Lock(zapcore.AddSync(fallback))
	if f, err := openLogFile(dir); err == nil {
		logFile = f
		sink = zapcore.AddSync(f)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, lvl)
	log := zap.New(core, zap.AddCaller()).With(zap.Int("pid", os.Getpid()))
	zap.ReplaceGlobals(log)

	return log, nil
}

// Path returns the current log file, or "" when no file is open
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// Close flushes the global logger and closes the log file
func Close() {
	_ = zap.L().Sync()

	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	name := filepath.Join(dir, fmt.Sprintf("scrape-panel-%s.log", time.Now().Format("20060102-150405")))
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func closeFileLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
