package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DoJSON sends a JSON request with custom headers and decodes a JSON response
// into resp. A nil resp discards the body.
func DoJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body interface{}, resp interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if client == nil {
		client = http.DefaultClient
	}
	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode < 200 || r.StatusCode > 299 {
		b, _ := io.ReadAll(r.Body)
		return fmt.Errorf("bad status: %d - %s", r.StatusCode, string(b))
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}, resp interface{}) error {
	return DoJSON(ctx, client, http.MethodPost, url, headers, body, resp)
}

func GetJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, resp interface{}) error {
	return DoJSON(ctx, client, http.MethodGet, url, headers, nil, resp)
}
