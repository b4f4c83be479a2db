// Package sysdict is the HTTP client for the external system-dictionary
// resolution service (spec.md §6): given entities referencing a system
// dictionary and the raw query, it resolves each to a concrete value (a
// date, a number, a place name) before a turn applies them.
package sysdict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chatopera/clause/internal/domain/bot"
)

// Client resolves system-dictionary entities against an external service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client against baseURL with a bounded request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type resolveRequest struct {
	Query    string   `json:"query"`
	Entities []sysEnt `json:"entities"`
}

type sysEnt struct {
	DictName string `json:"dict_name"`
	Text     string `json:"text"`
}

type resolveResponse struct {
	Entities []struct {
		DictName string `json:"dict_name"`
		Val      string `json:"val"`
	} `json:"entities"`
}

// Resolve asks the system-dictionary service to resolve the given pending
// entities (built by botsvc.PatchSysdictsRequestEntities) against query,
// returning only the ones it could resolve to a non-empty value.
func (c *Client) Resolve(ctx context.Context, query string, pending []bot.SysdictEntity) ([]bot.SysdictEntity, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	reqBody := resolveRequest{Query: query}
	for _, p := range pending {
		reqBody.Entities = append(reqBody.Entities, sysEnt{DictName: p.DictName, Text: p.Val})
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("sysdict: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sysdicts/resolve", bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("sysdict: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sysdict: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sysdict: unexpected status %d", resp.StatusCode)
	}

	var parsed resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("sysdict: decode response: %w", err)
	}

	out := make([]bot.SysdictEntity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		if e.Val == "" {
			continue
		}
		out = append(out, bot.SysdictEntity{DictName: e.DictName, Val: e.Val})
	}
	return out, nil
}
