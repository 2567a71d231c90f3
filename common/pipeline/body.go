/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/CardScan/CardScan/common/fields"
)

// maxHeldBody caps how much of a 401 body is kept while a refresh runs
const maxHeldBody = 64 << 10

type bodyFunc func() (io.ReadCloser, error)

// replayable returns a function producing a fresh copy of the request body
// for each send. A nil function means the request has no body.
func replayable(req *http.Request) (bodyFunc, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	if req.GetBody != nil {
		_ = req.Body.Close()
		return req.GetBody, nil
	}

	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("unable to buffer request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

// holdResponse reads the body of resp into memory and closes the network
// stream so the connection is released while the refresh runs. A body over
// maxHeldBody is cut short and a read error is replayed after the bytes
// that were read; both are logged.
func (p *Pipeline) holdResponse(resp *http.Response, logFields *fields.Fields) *http.Response {
	if resp.Body == nil {
		resp.Body = http.NoBody
		return resp
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHeldBody+1))
	_ = resp.Body.Close()

	var held io.Reader = bytes.NewReader(data)
	switch {
	case err != nil:
		p.logger.Warning(eidHeldBody, "unable to read 401 body", extend(logFields,
			fields.NewField("error", err.Error()),
			fields.NewField("read", len(data))))
		held = io.MultiReader(held, &failedReader{err: err})
	case len(data) > maxHeldBody:
		data = data[:maxHeldBody]
		held = bytes.NewReader(data)
		p.logger.Warning(eidHeldBody, "401 body truncated", extend(logFields,
			fields.NewField("limit", maxHeldBody)))
	}

	resp.Body = io.NopCloser(held)
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	if err == nil {
		resp.ContentLength = int64(len(data))
	}
	return resp
}

// extend returns a copy of base with extra appended
func extend(base *fields.Fields, extra ...fields.Field) *fields.Fields {
	out := make([]fields.Field, 0, len(base.Fields)+len(extra))
	out = append(out, base.Fields...)
	return fields.NewFields(append(out, extra...)...)
}

// failedReader repeats the error that ended a held body
type failedReader struct {
	err error
}

func (f *failedReader) Read([]byte) (int, error) {
	return 0, f.err
}

func discard(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxHeldBody))
		_ = resp.Body.Close()
	}
}
