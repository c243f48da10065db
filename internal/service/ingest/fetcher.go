package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
)

// FetchErrorKind tells ingestion callers what actually went wrong, instead
// of collapsing every failure into a nil payload.
type FetchErrorKind int

const (
	// FetchUnreachable means the request itself failed.
	FetchUnreachable FetchErrorKind = iota
	// FetchBadStatus means the upstream answered with a non-2xx status.
	FetchBadStatus
	// FetchMalformed means the payload could not be decoded.
	FetchMalformed
)

type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchBadStatus:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	case FetchMalformed:
		return fmt.Sprintf("fetch %s: malformed payload: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// fetch GETs url with a capped constant retry, the same backoff shape the
// scraper paths use elsewhere.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var body []byte

	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return backoff.Permanent(&FetchError{Kind: FetchUnreachable, URL: url, Err: reqErr})
			}

			resp, httpErr := client.Do(req)
			if httpErr != nil {
				return &FetchError{Kind: FetchUnreachable, URL: url, Err: httpErr}
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return &FetchError{Kind: FetchBadStatus, URL: url, Status: resp.StatusCode}
			}

			var readErr error
			body, readErr = io.ReadAll(resp.Body)
			if readErr != nil {
				return &FetchError{Kind: FetchUnreachable, URL: url, Err: readErr}
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	return body, nil
}

// fetchJSON fetches url and decodes the JSON payload into dest.
func fetchJSON(ctx context.Context, client *http.Client, url string, dest interface{}) error {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return err
	}

	if err = sonic.Unmarshal(body, dest); err != nil {
		return &FetchError{Kind: FetchMalformed, URL: url, Err: err}
	}

	return nil
}
