package hook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	kvstore "github.com/onlyati/kvstore"
	goccy "github.com/goccy/go-json"
)

// Poster delivers a single hook notification. It is the pluggable
// outbound collaborator: production code injects an HTTPPoster, tests
// inject a fake.
type Poster interface {
	Post(ctx context.Context, link, key, value string) error
}

// HTTPPoster is the default Poster: it POSTs a JSON body of the form
// {"key": ..., "value": ...} and discards the response, matching the
// original hook dispatcher, which never inspects the status code.
type HTTPPoster struct {
	Client *http.Client
}

// NewHTTPPoster returns an HTTPPoster using client, or http.DefaultClient
// if client is nil.
func NewHTTPPoster(client *http.Client) *HTTPPoster {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPoster{Client: client}
}

type body struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (p *HTTPPoster) Post(ctx context.Context, link, key, value string) error {
	b, err := goccy.Marshal(body{Key: key, Value: value})
	if err != nil {
		return kvstore.WithStack(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, link, bytes.NewReader(b))
	if err != nil {
		return kvstore.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.Client.Do(req)
	if err != nil {
		return kvstore.WithStack(err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return kvstore.WithStack(fmt.Errorf("draining hook response: %w", err))
	}
	return nil
}
