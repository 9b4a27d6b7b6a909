package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bb84/internal/domain"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
}

type HTTP struct {
	Base string
	HTTP *http.Client
}

func NewHTTP(base string) *HTTP {
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

var _ domain.ServerClient = (*HTTP)(nil)

func (c *HTTP) Status(ctx context.Context) (domain.Snapshot, error) {
	var out domain.Snapshot
	if err := c.getJSON(ctx, "/session/status", &out); err != nil {
		return domain.Snapshot{}, err
	}
	return out, nil
}

func (c *HTTP) Reset(ctx context.Context) error {
	return c.post(ctx, "/session/reset", nil, nil)
}

func (c *HTTP) PostMessage(ctx context.Context, msg domain.SendMessageEvent) error {
	return c.post(ctx, "/message", msg, nil)
}

func (c *HTTP) Messages(ctx context.Context) ([]domain.Message, error) {
	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := c.getJSON(ctx, "/messages", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HTTP) Simulate(ctx context.Context, nBits int, eveProb float64) (domain.SimulationResult, error) {
	q := url.Values{}
	q.Set("n_bits", strconv.Itoa(nBits))
	q.Set("eve_prob", strconv.FormatFloat(eveProb, 'f', -1, 64))

	var out domain.SimulationResult
	if err := c.getJSON(ctx, "/simulate?"+q.Encode(), &out); err != nil {
		return domain.SimulationResult{}, err
	}
	return out, nil
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out)
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *HTTP) do(req *http.Request, path string, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(req.Method, path, resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// statusError reads the server's detail, either {"detail": "..."} or a list
// of parameter errors.
func statusError(method, path string, resp *http.Response) error {
	e := &StatusError{Method: method, Path: path, Status: resp.Status, Code: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return e
	}
	var d struct {
		Detail string `json:"detail"`
	}
	var list []string
	switch {
	case json.Unmarshal(raw, &d) == nil && d.Detail != "":
		e.Detail = d.Detail
	case json.Unmarshal(raw, &list) == nil:
		e.Detail = strings.Join(list, " ")
	}
	return e
}
