package notifier

import "errors"

var (
	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("notifier: failed to encode event")

	// ErrPublish возвращается при ошибке записи события в очередь
	ErrPublish = errors.New("notifier: failed to publish event")
)
