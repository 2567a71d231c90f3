/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package display

import (
	"encoding/json"
	"fmt"

	"github.com/CardScan/CardScan/common/schema"
)

// Decode checks a Comms result and unmarshals a 2xx body into v, which may
// be nil when the body is not needed. Error responses are returned as
// *schema.APIError.
func Decode(statusCode int, data []byte, err error, v any) error {
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}

	if statusCode < 200 || statusCode > 299 {
		return schema.ParseAPIError(statusCode, data)
	}

	if v == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
