package lenses

import (
	"errors"
	"fmt"
	"strings"

	"lensadmin/internal/dataprovider"

	"github.com/spf13/cobra"
)

// describe дополняет ошибку API телом ответа сервера.
func describe(err error) error {
	if errors.Is(err, dataprovider.ErrNotImplemented) {
		return fmt.Errorf("операция не поддерживается API: %w", err)
	}

	httpErr, ok := dataprovider.AsHTTPError(err)
	if !ok {
		return err
	}

	body := strings.TrimSpace(string(httpErr.Body))
	if body == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, body)
}

// outputFormat учитывает глобальный --json.
func outputFormat(cmd *cobra.Command, format string) (string, error) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return formatJSON, nil
	}
	return format, validateFormat(format)
}
