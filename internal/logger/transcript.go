package logger

import (
	"strings"

	"agentwindow/internal/message"

	"github.com/sirupsen/logrus"
)

// TranscriptLogger 记录进入对话窗口的消息流。
type TranscriptLogger interface {
	Appended(runID string, index int, msg message.Message)
	Reset(runID string)
	Done(runID string, count int)
}

// StdTranscriptLogger 使用 logrus 输出，component 固定为 transcript。
type StdTranscriptLogger struct {
	logger *logrus.Entry
}

// NewTranscriptLogger 构造默认的记录器；l 为 nil 时使用全局 logger。
func NewTranscriptLogger(l *Logger) *StdTranscriptLogger {
	if l == nil {
		l = root()
	}
	return &StdTranscriptLogger{logger: logrus.NewEntry(l).WithField("component", "transcript")}
}

func (l *StdTranscriptLogger) Appended(runID string, index int, msg message.Message) {
	entry := l.logger.WithFields(logrus.Fields{"run": runID, "index": index, "type": msg.Type})
	if msg.Info != "" {
		entry = entry.WithField("info", sanitize(msg.Info))
	}
	entry.Info(sanitize(msg.Value))
}

func (l *StdTranscriptLogger) Reset(runID string) {
	l.logger.WithField("run", runID).Info("transcript reset")
}

func (l *StdTranscriptLogger) Done(runID string, count int) {
	l.logger.WithFields(logrus.Fields{"run": runID, "messages": count}).Info("run finished")
}

// NoopTranscriptLogger 忽略所有输出。
type NoopTranscriptLogger struct{}

func (NoopTranscriptLogger) Appended(string, int, message.Message) {}
func (NoopTranscriptLogger) Reset(string)                          {}
func (NoopTranscriptLogger) Done(string, int)                      {}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}
