package obs

import "go.uber.org/zap"

// ZapLogger forwards to a sugared zap logger.
type ZapLogger struct {
	L *zap.SugaredLogger
}

// NewZapLogger names l after the engine and wraps it.
func NewZapLogger(l *zap.Logger) ZapLogger {
	if l == nil {
		return ZapLogger{}
	}
	return ZapLogger{L: l.Named("plainhttp").Sugar()}
}

func (z ZapLogger) Logf(level Level, format string, args ...interface{}) {
	if z.L == nil {
		return
	}
	switch level {
	case Debug:
		z.L.Debugf(format, args...)
	case Info:
		z.L.Infof(format, args...)
	case Warn:
		z.L.Warnf(format, args...)
	default:
		z.L.Errorf(format, args...)
	}
}
