// Copyright 2025 The Classroom Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package supabase implements store.Store on top of the Supabase REST
// (PostgREST) and Storage APIs.
package supabase

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
	"time"

	"classroom/pkg/classerrors"
	"classroom/pkg/log"
	"classroom/portal/metrics"
)

const (
	restPrefix    = "/rest/v1/"
	storagePrefix = "/storage/v1/object/"

	preferRepresentation = "return=representation"
)

type Config struct {
	URL            string
	ServiceRoleKey string
	Timeout        time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to one Supabase project with the service role key. It is
// safe for concurrent use.
type Client struct {
	base   string
	key    string
	hc     *http.Client
	logger *log.Logger
}

func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:   strings.TrimRight(cfg.URL, "/"),
		key:    cfg.ServiceRoleKey,
		hc:     hc,
		logger: log.GetLogger("supabase"),
	}
}

// request is one call to the project.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	prefer      string
}

func (c *Client) jsonRequest(op, method, path string, query url.Values, payload any) (*request, error) {
	req := &request{op: op, method: method, path: path, query: query}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", op, err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

// do sends req and decodes a JSON answer into out when out is non-nil.
// Non-2xx answers become *classerrors.UpstreamError.
func (c *Client) do(ctx context.Context, req *request, out any) error {
	if c.base == "" || c.key == "" {
		return classerrors.ErrNotConfigured
	}

	target := c.base + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	hr, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return fmt.Errorf("%s: %w", req.op, err)
	}
	hr.Header.Set("apikey", c.key)
	hr.Header.Set("Authorization", "Bearer "+c.key)
	hr.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		hr.Header.Set("Content-Type", req.contentType)
	}
	if req.prefer != "" {
		hr.Header.Set("Prefer", req.prefer)
	}

	res, err := c.hc.Do(hr)
	if err != nil {
		metrics.StoreRequests.WithLabelValues("supabase", req.op, "error").Inc()
		return fmt.Errorf("%s: %w", req.op, err)
	}
	defer res.Body.Close()
	metrics.StoreRequests.WithLabelValues("supabase", req.op, strconv.Itoa(res.StatusCode)).Inc()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", req.op, err)
	}
	c.logger.Verbosef("%s %s %s -> %d", req.op, req.method, req.path, res.StatusCode)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &classerrors.UpstreamError{Status: res.StatusCode, Body: string(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode: %w", req.op, err)
	}
	return nil
}

func eq(v int64) string {
	return "eq." + strconv.FormatInt(v, 10)
}
