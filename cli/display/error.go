/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package display

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/common/schema"
)

// ErrorWrapper is a simple wrapper for CLI error handling.
// If there is an error, it prints it to stderr.
func ErrorWrapper(err error) {
	printError(os.Stderr, err)
}

func printError(w io.Writer, err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", err.Error())

	var apiErr *schema.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		_, _ = fmt.Fprintf(w, "Please run '%s login'\n", global.Name)
	}
}
