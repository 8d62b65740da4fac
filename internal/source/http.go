package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
)

type httpSource struct {
	url    string
	client *http.Client
	log    logger.Logger
}

// NewHTTP polls url for a JSON document that is either an object mapping
// keys to string values or an array of {"key": ..., "value": ...} objects.
// Non-string values are skipped.
func NewHTTP(url string, timeout time.Duration, log logger.Logger) Source {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &httpSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (h *httpSource) Name() string {
	return "http:" + h.url
}

func (h *httpSource) Enumerate(ctx context.Context) ([]sensor.Entry, error) {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err).WithData("build_request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errFactory.Wrap(ErrUnavailable, err).WithData(h.url)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, errFactory.WithData(ErrPermissionDenied, resp.Status)
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusNotFound:
		return nil, errFactory.WithData(ErrUnavailable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, errFactory.WithData(ErrQueryFailed, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err).WithData("read_body")
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, errFactory.Wrap(ErrQueryFailed, err).WithData("decode_body")
	}

	h.log.Debug().Str("url", h.url).Int("entries", len(entries)).Msg("HTTP source polled")

	return entries, nil
}

func (*httpSource) Close() error {
	return nil
}

func decodeEntries(body []byte) ([]sensor.Entry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}

		entries := make([]sensor.Entry, 0, len(items))
		for _, item := range items {
			if value, ok := stringValue(item.Value); ok {
				entries = append(entries, sensor.Entry{Key: item.Key, Value: value})
			}
		}
		return entries, nil
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, err
	}

	entries := make([]sensor.Entry, 0, len(values))
	for key, raw := range values {
		if value, ok := stringValue(raw); ok {
			entries = append(entries, sensor.Entry{Key: key, Value: value})
		}
	}

	return entries, nil
}

// stringValue decodes raw only when it is a JSON string. Unmarshal accepts
// null into a string, so that case is rejected explicitly.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	var value string
	if json.Unmarshal(raw, &value) != nil {
		return "", false
	}

	return value, true
}
