package logger

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var minLevel = levelDebug

// Init configures the process logger. Accepted levels are
// "debug", "info", "warn" and "error"; anything else means debug.
func Init(logLevel string) {
	log.SetOutput(os.Stdout)
	log.SetFlags(0)

	switch strings.ToLower(logLevel) {
	case "info":
		minLevel = levelInfo
	case "warn":
		minLevel = levelWarn
	case "error":
		minLevel = levelError
	default:
		minLevel = levelDebug
	}
}

func emit(lvl level, name, msg string, fields map[string]any) {
	if lvl < minLevel {
		return
	}

	entry := map[string]any{
		"level": name,
		"msg":   msg,
	}
	if len(fields) > 0 {
		entry["fields"] = fields
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf(`{"level":"ERROR","msg":"failed to marshal log entry"}`)
		return
	}

	log.Print(string(data))
}

func Debug(msg string, fields map[string]any) {
	emit(levelDebug, "DEBUG", msg, fields)
}

func Info(msg string, fields map[string]any) {
	emit(levelInfo, "INFO", msg, fields)
}

func Warn(msg string, fields map[string]any) {
	emit(levelWarn, "WARN", msg, fields)
}

func Error(msg string, fields map[string]any) {
	emit(levelError, "ERROR", msg, fields)
}

func Fatal(msg string, fields map[string]any) {
	emit(levelError, "FATAL", msg, fields)
	os.Exit(1)
}
