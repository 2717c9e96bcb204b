package httputils

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// No client timeout: streams last as long as the upstream keeps them open.
var client = resty.New().
	SetHeader("Content-Type", "application/json")

// PostStream returns the raw response body; the caller must close it.
func PostStream(ctx context.Context, url string, body interface{}) (io.ReadCloser, error) {
	return postStream(client.R().SetContext(ctx), url, body)
}

// PostStreamWithAuth is PostStream with a bearer token.
func PostStreamWithAuth(ctx context.Context, url, token string, body interface{}) (io.ReadCloser, error) {
	return postStream(client.R().SetContext(ctx).SetAuthToken(token), url, body)
}

func postStream(req *resty.Request, url string, body interface{}) (io.ReadCloser, error) {
	r, err := req.
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(url)
	if err != nil {
		return nil, err
	}
	raw := r.RawBody()
	if r.StatusCode() != http.StatusOK {
		if raw != nil {
			raw.Close()
		}
		return nil, fmt.Errorf("bad status: %d", r.StatusCode())
	}
	return raw, nil
}
