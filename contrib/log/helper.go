package log

import "fmt"

// Helper is the leveled, printf/structured logging facade every package
// in this tree calls through (log.NewHelper(logger) or the package-level
// shortcuts backed by the default logger).
type Helper struct {
	logger Logger
}

func NewHelper(l Logger) *Helper {
	return &Helper{logger: l}
}

func (h *Helper) Debugf(format string, args ...any) { h.logger.Log(LevelDebug, DefaultMessageKey, fmt.Sprintf(format, args...)) }
func (h *Helper) Infof(format string, args ...any)  { h.logger.Log(LevelInfo, DefaultMessageKey, fmt.Sprintf(format, args...)) }
func (h *Helper) Warnf(format string, args ...any)  { h.logger.Log(LevelWarn, DefaultMessageKey, fmt.Sprintf(format, args...)) }
func (h *Helper) Errorf(format string, args ...any) { h.logger.Log(LevelError, DefaultMessageKey, fmt.Sprintf(format, args...)) }

func (h *Helper) Debug(args ...any) { h.logger.Log(LevelDebug, DefaultMessageKey, fmt.Sprint(args...)) }
func (h *Helper) Info(args ...any)  { h.logger.Log(LevelInfo, DefaultMessageKey, fmt.Sprint(args...)) }
func (h *Helper) Warn(args ...any)  { h.logger.Log(LevelWarn, DefaultMessageKey, fmt.Sprint(args...)) }
func (h *Helper) Error(args ...any) { h.logger.Log(LevelError, DefaultMessageKey, fmt.Sprint(args...)) }

// Debugw/Infow/Warnw/Errorw take alternating key/value pairs, matching
// the teacher's structured-logging call convention.
func (h *Helper) Debugw(keyvals ...any) { h.logger.Log(LevelDebug, keyvals...) }
func (h *Helper) Infow(keyvals ...any)  { h.logger.Log(LevelInfo, keyvals...) }
func (h *Helper) Warnw(keyvals ...any)  { h.logger.Log(LevelWarn, keyvals...) }
func (h *Helper) Errorw(keyvals ...any) { h.logger.Log(LevelError, keyvals...) }

// With returns a Helper that tags every subsequent line with keyvals.
func (h *Helper) With(keyvals ...any) *Helper {
	return NewHelper(With(h.logger, keyvals...))
}

// Package-level shortcuts operate on the process-wide default logger, the
// same convenience the teacher's call sites (log.Infof(...), log.Debug(...))
// rely on without threading a Helper everywhere.

func Debugf(format string, args ...any) { NewHelper(defaultLogger).Debugf(format, args...) }
func Infof(format string, args ...any)  { NewHelper(defaultLogger).Infof(format, args...) }
func Warnf(format string, args ...any)  { NewHelper(defaultLogger).Warnf(format, args...) }
func Errorf(format string, args ...any) { NewHelper(defaultLogger).Errorf(format, args...) }

func Debug(args ...any) { NewHelper(defaultLogger).Debug(args...) }
func Info(args ...any)  { NewHelper(defaultLogger).Info(args...) }
func Warn(args ...any)  { NewHelper(defaultLogger).Warn(args...) }
func Error(args ...any) { NewHelper(defaultLogger).Error(args...) }

func Errorw(keyvals ...any) { NewHelper(defaultLogger).Errorw(keyvals...) }
func Infow(keyvals ...any)  { NewHelper(defaultLogger).Infow(keyvals...) }
