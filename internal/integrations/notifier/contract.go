package notifier

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder счетчик результатов публикации
type MetricsRecorder interface {
	IncNotification(kind string, ok bool)
}
