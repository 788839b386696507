// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"io"
	"net/http"
	"time"
)

// RetryDelay is the fixed pause between repeat attempts. Tests override
// this to avoid real sleeps.
var RetryDelay = 1 * time.Second

// DoWithRetry executes an HTTP request, repeating it after transport
// errors and 5xx responses up to retries extra times with a fixed pause
// between attempts. Zero retries means a single attempt.
//
// Responses below 500 are returned as-is: a 404 is a definitive answer
// and repeating it would only waste the server's time. If the request
// context is cancelled during a pause the function returns ctx.Err().
func DoWithRetry(client *http.Client, req *http.Request, retries int) (*http.Response, error) {
	if retries < 0 {
		retries = 0
	}
	ctx := req.Context()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			if attempt == retries {
				return resp, nil
			}
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryDelay):
		}
	}
	return nil, lastErr
}
