package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const probeInterval = time.Millisecond * 100

// Probe polls baseURL until it returns any HTTP response, printing a dot per attempt to output. It
// gives up when timeout elapses or ctx is cancelled.
func Probe(ctx context.Context, baseURL string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to API at %s", baseURL)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		fmt.Fprintf(output, ".")
		status, err := probeOnce(ctx, baseURL)
		if err == nil {
			fmt.Fprintf(output, "\nAPI responded with status %d\n", status)
			return nil
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return fmt.Errorf("API at %s did not respond, result of last query was: %w", baseURL, err)
		case <-time.After(probeInterval):
		}
	}
}

func probeOnce(ctx context.Context, baseURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}
