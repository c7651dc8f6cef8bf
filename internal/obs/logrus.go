package obs

import "github.com/sirupsen/logrus"

// LogrusLogger forwards to a logrus logger or entry.
type LogrusLogger struct {
	L logrus.FieldLogger
}

func (l LogrusLogger) Logf(level Level, format string, args ...interface{}) {
	if l.L == nil {
		return
	}
	switch level {
	case Debug:
		l.L.Debugf(format, args...)
	case Info:
		l.L.Infof(format, args...)
	case Warn:
		l.L.Warnf(format, args...)
	default:
		l.L.Errorf(format, args...)
	}
}

// LogrusLevel converts a Level to the matching logrus level.
func LogrusLevel(l Level) logrus.Level {
	switch l {
	case Debug:
		return logrus.DebugLevel
	case Info:
		return logrus.InfoLevel
	case Warn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
