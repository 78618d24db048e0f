package dataprovider

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotImplemented возвращают операции, которые клиент не поддерживает.
var ErrNotImplemented = errors.New("not implemented")

// HTTPError - ответ со статусом вне 2xx, возвращенный без разбора.
// Body хранит тело целиком, Response.Body можно прочитать повторно.
type HTTPError struct {
	Response *http.Response
	Body     []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("неожиданный статус ответа %s", e.Response.Status)
}

func (e *HTTPError) StatusCode() int {
	return e.Response.StatusCode
}

// newHTTPError вычитывает и закрывает resp.Body, сохраняя байты в ошибке.
func newHTTPError(resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return &HTTPError{Response: resp, Body: body}
}

// AsHTTPError достает *HTTPError из цепочки err.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
