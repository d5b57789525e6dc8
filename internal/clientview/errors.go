package clientview

import (
	"errors"
	"fmt"

	"github.com/m04kA/consultation-booking-service/internal/domain"
)

var (
	// ErrUnknownCommand команда с неизвестным видом операции
	ErrUnknownCommand = errors.New("clientview: unknown command")

	// ErrTimeout операция не завершилась за отведенное время.
	// Считается неуспешной: локальное состояние откатывается.
	ErrTimeout = fmt.Errorf("clientview: operation timed out: %w", domain.ErrRemoteOperationFailed)
)
