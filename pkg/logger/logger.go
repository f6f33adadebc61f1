package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

var levelWeight = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

// Logger writes structured key-value log lines, either human-readable or as
// one JSON object per line.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	level   LogLevel
	json    bool
	context map[string]string
}

var (
	global *Logger
	once   sync.Once
)

func Init(level LogLevel, jsonFormat bool, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if _, ok := levelWeight[level]; !ok {
		level = INFO
	}
	global = &Logger{
		out:     out,
		level:   level,
		json:    jsonFormat,
		context: map[string]string{},
	}
}

func GetLogger() *Logger {
	once.Do(func() {
		if global == nil {
			Init(INFO, false, os.Stdout)
		}
	})
	if global == nil {
		Init(INFO, false, os.Stdout)
	}
	return global
}

// WithContext returns a child logger that stamps the given field on every line.
func (l *Logger) WithContext(key, value string) *Logger {
	child := &Logger{
		out:     l.out,
		level:   l.level,
		json:    l.json,
		context: make(map[string]string, len(l.context)+1),
	}
	for k, v := range l.context {
		child.context[k] = v
	}
	child.context[key] = value
	return child
}

func (l *Logger) Debug(event string, kv ...interface{}) { l.log(DEBUG, event, kv...) }
func (l *Logger) Info(event string, kv ...interface{})  { l.log(INFO, event, kv...) }
func (l *Logger) Warn(event string, kv ...interface{})  { l.log(WARN, event, kv...) }
func (l *Logger) Error(event string, kv ...interface{}) { l.log(ERROR, event, kv...) }

func (l *Logger) log(level LogLevel, event string, kv ...interface{}) {
	if levelWeight[level] < levelWeight[l.level] {
		return
	}

	fields := make(map[string]interface{}, len(l.context)+len(kv)/2)
	for k, v := range l.context {
		fields[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kv[i])
		}
		fields[key] = kv[i+1]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format(time.RFC3339)
	if l.json {
		entry := map[string]interface{}{
			"time":  ts,
			"level": string(level),
			"event": event,
		}
		for k, v := range fields {
			entry[k] = v
		}
		b, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out, "%s [%s] %s (marshal error: %v)\n", ts, level, event, err)
			return
		}
		fmt.Fprintln(l.out, string(b))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", ts, level, event)
	for k, v := range fields {
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}
	fmt.Fprintln(l.out, sb.String())
}
