// Package logging builds the process-wide zap logger: console output teed
// into a daily log file so translation runs stay inspectable after the fact.
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLogDir = "MTL_LOG_DIR"

	logFilePerm = 0o644
	logDirPerm  = 0o755
)

// ResolveDir returns the log directory, preferring the env override.
func ResolveDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		return dir
	}
	return filepath.Join(".", "logs")
}

// dailyWriter appends to one file per calendar day. The file is opened per
// write so day rollover needs no timer.
type dailyWriter struct {
	mu  sync.Mutex
	dir string
}

func newDailyWriter() (*dailyWriter, error) {
	dir := ResolveDir()
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, err
	}
	return &dailyWriter{dir: dir}, nil
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	name := "server_" + time.Now().Format("2006-01-02") + ".log"
	file, err := os.OpenFile(filepath.Join(w.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
	if err != nil {
		return 0, err
	}
	n, writeErr := file.Write(p)
	closeErr := file.Close()
	if writeErr != nil {
		return n, writeErr
	}
	return n, closeErr
}

func (w *dailyWriter) Sync() error { return nil }

// New creates the application logger. Dev mode enables debug level.
func New(dev bool) (*zap.Logger, error) {
	writer, err := newDailyWriter()
	if err != nil {
		return nil, err
	}

	levelAt := zap.InfoLevel
	if dev {
		levelAt = zap.DebugLevel
	}
	level := zap.NewAtomicLevelAt(levelAt)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
		zapcore.NewCore(encoder, zapcore.AddSync(writer), level),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	_ = zap.RedirectStdLog(logger)
	return logger, nil
}
