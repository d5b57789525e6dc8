package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/internal/service/bookings/models"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

const (
	headerUserID        = "X-User-ID"
	headerUserRole      = "X-User-Role"
	headerConfirmDelete = "X-Confirm-Delete"

	apiPrefix = "/api/v1"
)

// Client клиент HTTP API сервиса бронирований.
// Все ошибки транспорта и 5xx приводятся к domain.ErrRemoteOperationFailed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	actor      domain.Actor
	loc        *time.Location
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, actor domain.Actor, loc *time.Location, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		actor: actor,
		loc:   loc,
		log:   log,
	}
}

// GetBooking получает бронирование по ID
func (c *Client) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var resp models.BookingResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return toDomainBooking(&resp, c.loc)
}

// ListBookings получает список бронирований по фильтру
func (c *Client) ListBookings(ctx context.Context, filter ListFilter) ([]*domain.Booking, error) {
	query := url.Values{}
	if filter.From != nil {
		query.Set("from", filter.From.Format(domain.DateFormat))
	}
	if filter.To != nil {
		query.Set("to", filter.To.Format(domain.DateFormat))
	}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.ClientID != nil {
		query.Set("clientId", strconv.FormatInt(*filter.ClientID, 10))
	}
	if filter.IncludeCancelled {
		query.Set("includeCancelled", "true")
	}

	path := "/bookings"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp models.BookingListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]*domain.Booking, 0, len(resp.Bookings))
	for i := range resp.Bookings {
		b, err := toDomainBooking(&resp.Bookings[i], c.loc)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

// Cancel отменяет бронирование
func (c *Client) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	return c.bookingAction(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/cancel", id), nil)
}

// MarkPaid подтверждает оплату
func (c *Client) MarkPaid(ctx context.Context, id int64) (*domain.Booking, error) {
	return c.bookingAction(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/mark-paid", id), nil)
}

// Complete завершает консультацию
func (c *Client) Complete(ctx context.Context, id int64) (*domain.Booking, error) {
	return c.bookingAction(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/complete", id), nil)
}

// UpdateStatus переводит бронирование в произвольный статус по таблице переходов
func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	return c.bookingAction(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/status", id),
		updateStatusRequest{Status: string(status)})
}

// Delete физически удаляет бронирование. Подтверждение выставляется здесь,
// вызывающая сторона отвечает за то, чтобы получить его у пользователя.
func (c *Client) Delete(ctx context.Context, id int64) error {
	headers := map[string]string{headerConfirmDelete: "true"}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookings/%d", id), headers, nil, nil)
}

// Reschedule переносит бронирование на новую дату и время
func (c *Client) Reschedule(ctx context.Context, id int64, date time.Time, start types.TimeString) (*RescheduleResult, error) {
	body := rescheduleRequest{Date: date.Format(domain.DateFormat), Time: start.String()}

	var resp rescheduleResponse
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/reschedule", id), body, &resp); err != nil {
		return nil, err
	}

	booking, err := toDomainBooking(resp.Booking, c.loc)
	if err != nil {
		return nil, err
	}
	return &RescheduleResult{Booking: booking, Warnings: resp.Warnings, NoOp: resp.NoOp}, nil
}

// GetRescheduleInfo проверяет возможность переноса
func (c *Client) GetRescheduleInfo(ctx context.Context, id int64) (*RescheduleInfo, error) {
	var resp RescheduleInfo
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d/reschedule-info", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) bookingAction(ctx context.Context, method, path string, body interface{}) (*domain.Booking, error) {
	var resp models.BookingResponse
	if err := c.doJSON(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return toDomainBooking(&resp, c.loc)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, nil, reader, out)
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerUserID, strconv.FormatInt(c.actor.UserID, 10))
	req.Header.Set(headerUserRole, string(c.actor.Role))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("%s %s - request failed: %v", method, path, err)
		return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteOperationFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
		return nil
	}

	return c.decodeError(method, path, resp)
}

// decodeError переводит ответ с ошибкой в ошибку ядра
func (c *Client) decodeError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var apiErr ErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err != nil {
		apiErr = ErrorResponse{Message: string(raw)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Error("%s %s - server error: status=%d, body=%s", method, path, resp.StatusCode, string(raw))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			domain.ErrRemoteOperationFailed, method, path, resp.StatusCode, apiErr.Message)
	}

	c.log.Warn("%s %s - rejected: status=%d, code=%s", method, path, resp.StatusCode, apiErr.Code)

	switch apiErr.Code {
	case codeRescheduleBlocked:
		return domain.NewRescheduleBlockedError(apiErr.Reasons)
	case codeSlotUnavailable:
		return fmt.Errorf("%w: %s", domain.ErrSlotUnavailable, apiErr.Message)
	case codeInvalidTransition:
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, apiErr.Message)
	case codeInvalidConfiguration:
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfiguration, apiErr.Message)
	case codeNotFound:
		return fmt.Errorf("%w: %s", ErrBookingNotFound, apiErr.Message)
	case codeForbidden, codeUnauthorized:
		return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.Message)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, apiErr.Message)
	}
}
