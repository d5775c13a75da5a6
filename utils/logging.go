package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogWriter forwards log entries to a rotating log file.
type LogWriter struct {
	file      *lumberjack.Logger
	formatter logger.Formatter
	levels    []logger.Level
}

// InitLogger configures the standard logger from Config.Logging.
// The returned writer must be disposed on shutdown.
func InitLogger() (*LogWriter, *logger.Logger) {
	log := logger.StandardLogger()
	cfg := Config

	outputLevel := logger.InfoLevel
	if cfg != nil && cfg.Logging.OutputLevel != "" {
		level, err := logger.ParseLevel(cfg.Logging.OutputLevel)
		if err != nil {
			log.Warnf("invalid log output level %v: %v", cfg.Logging.OutputLevel, err)
		} else {
			outputLevel = level
		}
	}

	if cfg != nil && cfg.Logging.OutputStderr {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(os.Stdout)
	}

	writer := &LogWriter{}
	if cfg == nil || cfg.Logging.FilePath == "" {
		log.SetLevel(outputLevel)
		return writer, log
	}

	fileLevel := outputLevel
	if cfg.Logging.FileLevel != "" {
		level, err := logger.ParseLevel(cfg.Logging.FileLevel)
		if err != nil {
			log.Warnf("invalid log file level %v: %v", cfg.Logging.FileLevel, err)
		} else {
			fileLevel = level
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Logging.FilePath), 0o755); err != nil {
		log.Errorf("failed creating log directory: %v", err)
		log.SetLevel(outputLevel)
		return writer, log
	}

	writer.file = &lumberjack.Logger{
		Filename:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.FileMaxSize,
		MaxBackups: cfg.Logging.FileMaxBackups,
		MaxAge:     cfg.Logging.FileMaxAge,
	}
	writer.formatter = &logger.JSONFormatter{}
	writer.levels = levelsUpTo(fileLevel)

	// the logger level gates both outputs, stdout filters on its own below
	maxLevel := outputLevel
	if fileLevel > maxLevel {
		maxLevel = fileLevel
	}
	log.SetLevel(maxLevel)
	if outputLevel < maxLevel {
		log.SetOutput(io.Discard)
		log.AddHook(&levelWriterHook{
			writer:    outputWriter(cfg.Logging.OutputStderr),
			formatter: log.Formatter,
			levels:    levelsUpTo(outputLevel),
		})
	}
	log.AddHook(writer)

	return writer, log
}

func outputWriter(stderr bool) io.Writer {
	if stderr {
		return os.Stderr
	}
	return os.Stdout
}

func levelsUpTo(max logger.Level) []logger.Level {
	levels := []logger.Level{}
	for _, level := range logger.AllLevels {
		if level <= max {
			levels = append(levels, level)
		}
	}
	return levels
}

func (w *LogWriter) Levels() []logger.Level {
	return w.levels
}

func (w *LogWriter) Fire(entry *logger.Entry) error {
	line, err := w.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = w.file.Write(line)
	return err
}

// Dispose closes the log file.
func (w *LogWriter) Dispose() {
	if w.file != nil {
		w.file.Close()
	}
}

type levelWriterHook struct {
	writer    io.Writer
	formatter logger.Formatter
	levels    []logger.Level
}

func (h *levelWriterHook) Levels() []logger.Level {
	return h.levels
}

func (h *levelWriterHook) Fire(entry *logger.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

// LogFatal logs a fatal error with callstack info that skips callerSkip many levels with arbitrarily many additional infos.
// callerSkip equal to 0 gives you info directly where LogFatal is called.
func LogFatal(err error, errorMsg interface{}, callerSkip int, additionalInfos ...map[string]interface{}) {
	logErrorInfo(err, callerSkip, additionalInfos...).Fatal(errorMsg)
}

// LogError logs an error with callstack info that skips callerSkip many levels with arbitrarily many additional infos.
// callerSkip equal to 0 gives you info directly where LogError is called.
func LogError(err error, errorMsg interface{}, callerSkip int, additionalInfos ...map[string]interface{}) {
	logErrorInfo(err, callerSkip, additionalInfos...).Error(errorMsg)
}

func logErrorInfo(err error, callerSkip int, additionalInfos ...map[string]interface{}) *logger.Entry {
	logFields := logger.NewEntry(logger.StandardLogger())

	pc, fullFilePath, line, ok := runtime.Caller(callerSkip + 2)
	if ok {
		logFields = logFields.WithFields(logger.Fields{
			"_file":     filepath.Base(fullFilePath),
			"_function": runtime.FuncForPC(pc).Name(),
			"_line":     line,
		})
	} else {
		logFields = logFields.WithField("runtime", "Callstack cannot be read")
	}

	errColl := []string{}
	for {
		errColl = append(errColl, fmt.Sprint(err))
		nextErr := errors.Unwrap(err)
		if nextErr != nil {
			err = nextErr
		} else {
			break
		}
	}

	errMarkSign := "~"
	for idx := 0; idx < (len(errColl) - 1); idx++ {
		errInfoText := fmt.Sprintf("%serrInfo_%v%s", errMarkSign, idx, errMarkSign)
		nextErrInfoText := fmt.Sprintf("%serrInfo_%v%s", errMarkSign, idx+1, errMarkSign)
		if idx == (len(errColl) - 2) {
			nextErrInfoText = fmt.Sprintf("%serror%s", errMarkSign, errMarkSign)
		}

		// Replace the last occurrence of the next error in the current error
		lastIdx := strings.LastIndex(errColl[idx], errColl[idx+1])
		if lastIdx != -1 {
			errColl[idx] = errColl[idx][:lastIdx] + nextErrInfoText + errColl[idx][lastIdx+len(errColl[idx+1]):]
		}

		errInfoText = strings.ReplaceAll(errInfoText, errMarkSign, "")
		logFields = logFields.WithField(errInfoText, errColl[idx])
	}

	if err != nil {
		logFields = logFields.WithField("errType", fmt.Sprintf("%T", err)).WithError(err)
	}

	for _, infoMap := range additionalInfos {
		for name, info := range infoMap {
			logFields = logFields.WithField(name, info)
		}
	}

	return logFields
}
