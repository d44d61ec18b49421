package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
	Out       io.Writer
}

func (c *client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

// call hace el request y falla con el message del envelope si el status no es 2xx.
func (c *client) call(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	status, b, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		var env struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(b, &env) == nil && env.Message != "" {
			return b, fmt.Errorf("%s %s: status=%d: %s", method, path, status, env.Message)
		}
		return b, fmt.Errorf("%s %s: status=%d", method, path, status)
	}
	return b, nil
}

func (c *client) print(body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintln(c.Out, string(p))
			return
		}
	}
	fmt.Fprintln(c.Out, strings.TrimSpace(string(body)))
}

// createdID lee "created" de una respuesta de POST.
func createdID(body []byte) (int64, error) {
	var env struct {
		Created int64 `json:"created"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, err
	}
	if env.Created == 0 {
		return 0, fmt.Errorf("response without created id: %s", body)
	}
	return env.Created, nil
}
