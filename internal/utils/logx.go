package utils

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var reUnsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// LogxManager hands out one logger per node. With a base path every node
// writes info.log, error.log and debug.log under its own directory; without
// one, everything goes to stdout.
type LogxManager struct {
	basePath string
	debug    bool
	loggers  map[string]*zap.Logger
	files    []*os.File
	mu       sync.RWMutex
}

func NewManager(base string, debug bool) *LogxManager {
	m := &LogxManager{basePath: base, debug: debug, loggers: make(map[string]*zap.Logger)}

	if m.basePath != "" {
		if err := os.MkdirAll(m.basePath, 0744); err != nil {
			log.Printf("failed to create base log dir %s: %v", m.basePath, err)
		}
	}
	return m
}

// SafeName maps a node address to a usable directory name.
func SafeName(name string) string {
	cleaned := reUnsafeName.ReplaceAllString(name, "_")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "_"
	}
	return cleaned
}

func (m *LogxManager) Logger(name string) *zap.Logger {
	m.mu.RLock()
	if lg, ok := m.loggers[name]; ok {
		m.mu.RUnlock()
		return lg
	}
	m.mu.RUnlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	if lg, ok := m.loggers[name]; ok {
		return lg
	}

	var lg *zap.Logger
	if m.basePath == "" {
		lg = m.stdoutLogger()
	} else {
		lg = m.fileLogger(filepath.Join(m.basePath, SafeName(name)))
	}
	m.loggers[name] = lg
	return lg
}

func (m *LogxManager) stdoutLogger() *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.CapitalLevelEncoder,
	}
	level := zapcore.InfoLevel
	if m.debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level)
	return zap.New(core)
}

func (m *LogxManager) fileLogger(dir string) *zap.Logger {
	if err := os.MkdirAll(dir, 0744); err != nil {
		log.Printf("failed to create log dir %s: %v", dir, err)
	}

	encCfg := zapcore.EncoderConfig{MessageKey: "msg", LineEnding: zapcore.DefaultLineEnding}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	infoOut := zapcore.AddSync(m.openLogFile(filepath.Join(dir, "info.log")))
	errorOut := zapcore.AddSync(m.openLogFile(filepath.Join(dir, "error.log")))

	infoLv := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.InfoLevel || l == zapcore.WarnLevel })
	errLv := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel })

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, infoOut, infoLv),
		zapcore.NewCore(encoder, errorOut, errLv),
	}
	if m.debug {
		dbgOut := zapcore.AddSync(m.openLogFile(filepath.Join(dir, "debug.log")))
		dbgLv := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.DebugLevel })
		cores = append(cores, zapcore.NewCore(encoder, dbgOut, dbgLv))
	}
	return zap.New(zapcore.NewTee(cores...))
}

func (m *LogxManager) openLogFile(path string) *os.File {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", path, err)
		return os.Stdout
	}
	m.files = append(m.files, f)
	return f
}

// Close flushes every logger and closes the files they write to.
func (m *LogxManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, lg := range m.loggers {
		_ = lg.Sync()
	}
	for _, f := range m.files {
		if err := f.Close(); err != nil {
			log.Printf("failed to close log file %s: %v", f.Name(), err)
		}
	}
	m.files = nil
}
