package requestutils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
	"github.com/cenkalti/backoff/v4"
)

type requests struct {
	logger  lumber.Logger
	client  http.Client
	backoff backoff.BackOff
}

// New returns a new core.Requests. Calls that fail on the transport or with a
// 5xx status are retried according to b, pass &backoff.StopBackOff{} to
// disable retries.
func New(logger lumber.Logger, timeout time.Duration, b backoff.BackOff) core.Requests {
	return &requests{
		logger:  logger,
		client:  http.Client{Timeout: timeout},
		backoff: b,
	}
}

// NewExponentialBackOff returns the retry policy used for backend calls,
// maxRetries of zero disables retrying.
func NewExponentialBackOff(maxRetries int) backoff.BackOff {
	if maxRetries <= 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	return backoff.WithMaxRetries(b, uint64(maxRetries))
}

func (r *requests) MakeAPIRequest(ctx context.Context, httpMethod, endpoint string, body []byte,
	query map[string]interface{}, headers map[string]string) (rawBody []byte, statusCode int, err error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		r.logger.Errorf("error while parsing endpoint %s, %v", endpoint, err)
		return nil, 0, err
	}
	q := u.Query()
	for id, val := range query {
		q.Set(id, fmt.Sprintf("%v", val))
	}
	u.RawQuery = q.Encode()

	attempt := 0
	operation := func() error {
		attempt++
		rawBody, statusCode, err = r.do(ctx, httpMethod, u.String(), body, headers)
		if err == nil {
			return nil
		}
		if statusCode != 0 && statusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.logger.Warnf("attempt %d of %s %s failed: %v, retrying in %s", attempt, httpMethod, u.Path, err, wait)
	}

	// ctx cancellation stops the retry loop as well as the in-flight call
	if retryErr := backoff.RetryNotify(operation, backoff.WithContext(r.backoff, ctx), notify); retryErr != nil {
		return rawBody, statusCode, retryErr
	}
	return rawBody, statusCode, nil
}

func (r *requests) do(ctx context.Context, httpMethod, endpoint string, body []byte,
	headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, bytes.NewReader(body))
	if err != nil {
		r.logger.Errorf("error while creating http request %v", err)
		return nil, 0, err
	}
	for key, val := range headers {
		req.Header.Set(key, val)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Errorf("error while sending http request %v", err)
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logger.Errorf("error while reading http response body %v", err)
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		r.logger.Errorf("non 2xx status code %d from %s: %s", resp.StatusCode, endpoint, string(respBody))
		return respBody, resp.StatusCode, fmt.Errorf("%w: %d", errs.ErrApiStatus, resp.StatusCode)
	}

	return respBody, resp.StatusCode, nil
}
