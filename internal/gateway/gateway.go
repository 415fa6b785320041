// Package gateway is the only code that talks to the room-programming backend.
//
// Every failure comes back as one of the typed errors in package model; nothing
// is retried here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomprog/internal/catalog"
	"roomprog/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	BaseURL string
	// Timeout of zero means requests are never cut short by the client.
	Timeout time.Duration
	Logger  *zap.Logger
	// HTTPClient replaces the transport (tests).
	HTTPClient *http.Client
}

type Client struct {
	http *resty.Client
	cats *catalog.Catalog
	log  *zap.Logger
}

func New(opts Options, cats *catalog.Catalog) *Client {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: rc, cats: cats, log: log.Named("gateway")}
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (e envelope) failed() bool { return e.Success != nil && !*e.Success }

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	write  bool
}

// do runs one request. A 2xx body is checked for {"success": false} before it is
// decoded into out.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	reqID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID)
	if cl.query != nil {
		req.SetQueryParamsFromValues(cl.query)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	fields := []zap.Field{
		zap.String("op", cl.op),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.String("request_id", reqID),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		c.log.Warn("request failed", append(fields, zap.Error(err))...)
		return &model.NetworkError{Op: cl.op, Err: err}
	}
	status := resp.StatusCode()
	body := resp.Body()
	c.log.Debug("request done", append(fields, zap.Int("status", status))...)

	if status < 200 || status >= 300 {
		msg := failureMessage(body)
		if cl.write && (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity) {
			return &model.ValidationError{Message: msg}
		}
		return &model.RemoteError{StatusCode: status, Message: msg}
	}

	var env envelope
	if err := decode(body, &env); err != nil {
		return &model.ProtocolError{Op: cl.op, Err: err}
	}
	if env.failed() {
		if cl.write {
			return &model.ValidationError{Message: env.Message}
		}
		return &model.RemoteError{StatusCode: status, Message: env.Message}
	}
	if out != nil {
		if err := decode(body, out); err != nil {
			return &model.ProtocolError{Op: cl.op, Err: err}
		}
	}
	return nil
}

// decode keeps numbers as json.Number so ids and quantities round-trip exactly.
func decode(b []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(out)
}

func failureMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && strings.TrimSpace(env.Message) != "" {
		return strings.TrimSpace(env.Message)
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	// HTML error pages are not worth showing.
	if strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}

func (c *Client) category(op, id string) (model.Category, error) {
	cat, ok := c.cats.Get(id)
	if !ok {
		c.log.Error("unknown category", zap.String("op", op), zap.String("category", id))
		return model.Category{}, model.ErrUnknownCategory
	}
	return cat, nil
}

func esc(s string) string { return url.PathEscape(strings.TrimSpace(s)) }
