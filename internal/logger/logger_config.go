package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mini-maxit/solver-bench/pkg/constants"
)

const (
	timeKey   = "time"
	levelKey  = "level"
	sourceKey = "source"
	msgKey    = "msg"

	logFileName = "sweep.log"
)

var (
	sugarLogger *zap.SugaredLogger
	initOnce    sync.Once
)

// getLogPath returns the log file path under LOG_DIR, relative to the working
// directory the sweep is started from.
func getLogPath() string {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = constants.DefaultLogDir
	}

	return filepath.Join(logDir, logFileName)
}

func getLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return zap.InfoLevel
	}
	return level
}

func initializeLogger() {
	logPath := getLogPath()

	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logPath = logFileName
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50,
		MaxBackups: 10,
		MaxAge:     28,
		Compress:   true,
		LocalTime:  true,
	})

	stdWriter := zapcore.AddSync(os.Stdout)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        timeKey,
		LevelKey:       levelKey,
		NameKey:        sourceKey,
		MessageKey:     msgKey,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := getLogLevel()

	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		w,
		level,
	)

	stdCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		stdWriter,
		level,
	)

	core := zapcore.NewTee(fileCore, stdCore)

	log := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.WithFatalHook(exitHook(constants.ExitCodeConfigError)))
	sugarLogger = log.Sugar()
}

// exitHook terminates the process with its own value. Fatal logs only happen
// while the sweep is being configured.
type exitHook int

func (h exitHook) OnWrite(*zapcore.CheckedEntry, []zapcore.Field) {
	Sync()
	os.Exit(int(h))
}

// InitializeLogger sets up the shared logger. Calling it more than once has no effect.
func InitializeLogger() {
	initOnce.Do(initializeLogger)
}

// Sync flushes buffered log entries.
func Sync() {
	if sugarLogger != nil {
		_ = sugarLogger.Sync()
	}
}

// NewNamedLogger creates a new named SugaredLogger for a given component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	InitializeLogger()
	return sugarLogger.Named(name)
}
