// Package dataprovider переводит абстрактные запросы списка, чтения, создания и изменения
// в вызовы простого REST API и приводит ответы к общему виду.
package dataprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// TotalCountHeader - заголовок с общим числом записей по всем страницам
const TotalCountHeader = "x-total-count"

// RawList - страница записей в том виде, в каком ее вернул сервер, и общее число
type RawList struct {
	Data       []json.RawMessage
	Total      int64
	TotalKnown bool
}

// Provider работает с одним REST API и не хранит состояния между вызовами.
type Provider struct {
	client           *http.Client
	log              *slog.Logger
	apiURL           string
	userAgent        string
	filterValidation bool
}

type Option func(*Provider)

// WithHTTPClient заменяет http.Client по умолчанию.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// WithLogger задает логгер для трассировки запросов.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provider) {
		p.log = log
	}
}

// WithFilterValidation включает приведение значений фильтров id/sphere/cylinder к числам.
func WithFilterValidation(enabled bool) Option {
	return func(p *Provider) {
		p.filterValidation = enabled
	}
}

func WithUserAgent(ua string) Option {
	return func(p *Provider) {
		p.userAgent = ua
	}
}

// New создает Provider для API с корнем apiURL.
func New(apiURL string, opts ...Option) (*Provider, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("некорректный URL API: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("некорректный URL API %q: нужны схема и хост", apiURL)
	}

	p := &Provider{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		apiURL:    strings.TrimRight(apiURL, "/"),
		userAgent: "LensAdmin-Client/1.0",
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// APIURL возвращает базовый URL API.
func (p *Provider) APIURL() string {
	return p.apiURL
}

// List запрашивает одну страницу ресурса.
func (p *Provider) List(ctx context.Context, resource string, params ListParams) (*RawList, error) {
	var coerce func([]Filter) []Filter
	if p.filterValidation {
		coerce = coerceNumericFilters
	}

	query, err := encodeQuery(params, coerce)
	if err != nil {
		return nil, err
	}

	target := p.apiURL + "/" + resource
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	resp, err := p.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var data []json.RawMessage
	if err := p.decode(resp, &data); err != nil {
		return nil, err
	}

	result := &RawList{Data: data}
	result.Total, result.TotalKnown = parseTotal(resp.Header.Get(TotalCountHeader))
	if !result.TotalKnown {
		p.log.Warn("Нет или некорректен заголовок с общим числом записей",
			"resource", resource,
			"value", resp.Header.Get(TotalCountHeader),
		)
	}

	return result, nil
}

// GetOne запрашивает одну запись по id.
func (p *Provider) GetOne(ctx context.Context, resource, id string) (json.RawMessage, error) {
	resp, err := p.do(ctx, http.MethodGet, p.recordURL(resource, id), nil)
	if err != nil {
		return nil, err
	}

	var data json.RawMessage
	if err := p.decode(resp, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Create отправляет payload как новую запись и возвращает созданную.
func (p *Provider) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	resp, err := p.do(ctx, http.MethodPost, p.apiURL+"/"+resource, payload)
	if err != nil {
		return nil, err
	}

	var data json.RawMessage
	if err := p.decode(resp, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Update записывает payload поверх записи и возвращает обновленную.
func (p *Provider) Update(ctx context.Context, resource, id string, payload any) (json.RawMessage, error) {
	resp, err := p.do(ctx, http.MethodPut, p.recordURL(resource, id), payload)
	if err != nil {
		return nil, err
	}

	var data json.RawMessage
	if err := p.decode(resp, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Delete не поддерживается и всегда возвращает ErrNotImplemented.
func (p *Provider) Delete(_ context.Context, _, _ string) error {
	return ErrNotImplemented
}

func (p *Provider) recordURL(resource, id string) string {
	return p.apiURL + "/" + resource + "/" + url.PathEscape(id)
}

// do отправляет один запрос; статус вне 2xx возвращается как *HTTPError.
func (p *Provider) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	p.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
		"request_id", requestID,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка отправки запроса: %w", err)
	}

	p.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"request_id", requestID,
	)

	if !isSuccess(resp.StatusCode) {
		return nil, newHTTPError(resp)
	}

	return resp, nil
}

func (p *Provider) decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа: %w", err)
	}
	return nil
}

// parseTotal читает x-total-count; пустое или нечисловое значение дает 0, false.
func parseTotal(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}
