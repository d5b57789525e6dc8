package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/validator"
)

// Машиночитаемые коды ошибок API
const (
	CodeInvalidInput         = "invalid_input"
	CodeUnauthorized         = "unauthorized"
	CodeForbidden            = "forbidden"
	CodeNotFound             = "not_found"
	CodeConflict             = "conflict"
	CodeSlotUnavailable      = "slot_unavailable"
	CodeInvalidTransition    = "invalid_transition"
	CodeRescheduleBlocked    = "reschedule_blocked"
	CodeInvalidConfiguration = "invalid_configuration"
	CodeConfirmationRequired = "confirmation_required"
	CodeInternal             = "internal"
)

const (
	msgInternalError        = "внутренняя ошибка сервера"
	msgSlotUnavailable      = "выбранное время недоступно, выберите другое"
	msgInvalidTransition    = "недопустимая смена статуса бронирования"
	msgRescheduleBlocked    = "действие недоступно для этого бронирования"
	msgInvalidConfiguration = "некорректные настройки рабочего времени"
	msgValidationFailed     = "некорректные поля запроса"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string   `json:"code"`
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Reasons []string          `json:"reasons,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondJSON пишет JSON ответ. nil data означает пустое тело.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с кодом и сообщением для пользователя
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{
		Code:    code,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// RespondErrorWithReasons пишет ошибку со списком причин
func RespondErrorWithReasons(w http.ResponseWriter, status int, code, message string, reasons []string) {
	RespondJSON(w, status, ErrorResponse{
		Code:    code,
		Error:   http.StatusText(status),
		Message: message,
		Reasons: reasons,
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeInvalidInput, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, CodeForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, CodeNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, CodeConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

// RespondDomainError отвечает на ошибки из таксономии ядра.
// Возвращает false, если ошибка к ней не относится.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrRescheduleBlocked):
		RespondErrorWithReasons(w, http.StatusForbidden, CodeRescheduleBlocked, msgRescheduleBlocked, domain.BlockedReasons(err))
	case errors.Is(err, domain.ErrSlotUnavailable):
		RespondError(w, http.StatusConflict, CodeSlotUnavailable, msgSlotUnavailable)
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondError(w, http.StatusUnprocessableEntity, CodeInvalidTransition, msgInvalidTransition)
	case errors.Is(err, domain.ErrInvalidConfiguration):
		RespondError(w, http.StatusBadRequest, CodeInvalidConfiguration, msgInvalidConfiguration)
	default:
		return false
	}
	return true
}

// ValidateRequest проверяет теги validate модели запроса.
// При ошибках отвечает 400 со списком полей и возвращает false.
func ValidateRequest(w http.ResponseWriter, req interface{}) bool {
	fields := validator.Validate(req)
	if fields == nil {
		return true
	}

	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeInvalidInput,
		Error:   http.StatusText(http.StatusBadRequest),
		Message: msgValidationFailed,
		Fields:  fields,
	})
	return false
}

// DecodeJSON декодирует тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// PathInt64 извлекает положительный int64 из переменной пути
func PathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return value, nil
}

// QueryDate парсит необязательный параметр даты YYYY-MM-DD
func QueryDate(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
