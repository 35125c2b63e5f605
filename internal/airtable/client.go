package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ms-event-dashboard/internal/config"
)

// The store accepts at most this many records per create/update request.
const maxRecordsPerRequest = 10

// Record is one row of a table, fields keyed by their store-side names.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// RecordPatch addresses an existing record for a partial update.
type RecordPatch struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// ListOptions narrows a table scan.
type ListOptions struct {
	FilterByFormula string
	MaxRecords      int
}

// Client talks to the Airtable REST API for a single base. All
// configuration is injected; there is no module-level state.
type Client struct {
	cfg    config.AirtableConfig
	client *http.Client
}

func NewClient(cfg config.AirtableConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{cfg: cfg, client: client}
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(table))
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeRemoteError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeRemoteError(resp *http.Response) error {
	remote := &RemoteError{StatusCode: resp.StatusCode}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Error) > 0 {
		// The store's error field is either an object or a bare string.
		var obj struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &obj); err == nil {
			remote.Type = obj.Type
			remote.Message = obj.Message
		} else {
			var s string
			if json.Unmarshal(payload.Error, &s) == nil {
				remote.Message = s
			}
		}
	}
	if remote.Message == "" {
		remote.Message = string(raw)
	}
	return remote
}

// GetRecord fetches a single record by id.
func (c *Client) GetRecord(ctx context.Context, table, id string) (*Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecords scans a table, following pagination offsets until the
// store stops returning them.
func (c *Client) ListRecords(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""

	for {
		q := url.Values{}
		if opts.FilterByFormula != "" {
			q.Set("filterByFormula", opts.FilterByFormula)
		}
		if opts.MaxRecords > 0 {
			q.Set("maxRecords", fmt.Sprintf("%d", opts.MaxRecords))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		listURL := c.tableURL(table)
		if encoded := q.Encode(); encoded != "" {
			listURL += "?" + encoded
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.do(ctx, http.MethodGet, listURL, nil, &page); err != nil {
			return nil, err
		}

		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// CreateRecords inserts the given field sets and returns the created
// records with their assigned ids, in input order. Requests are chunked
// at the store's per-request cap.
func (c *Client) CreateRecords(ctx context.Context, table string, fieldSets []map[string]any) ([]Record, error) {
	var created []Record

	for start := 0; start < len(fieldSets); start += maxRecordsPerRequest {
		end := start + maxRecordsPerRequest
		if end > len(fieldSets) {
			end = len(fieldSets)
		}

		type createEntry struct {
			Fields map[string]any `json:"fields"`
		}
		body := struct {
			Records  []createEntry `json:"records"`
			Typecast bool          `json:"typecast"`
		}{Typecast: true}
		for _, fields := range fieldSets[start:end] {
			body.Records = append(body.Records, createEntry{Fields: fields})
		}

		var resp struct {
			Records []Record `json:"records"`
		}
		if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &resp); err != nil {
			return nil, err
		}
		created = append(created, resp.Records...)
	}
	return created, nil
}

// UpdateRecords applies partial updates, chunked like CreateRecords.
func (c *Client) UpdateRecords(ctx context.Context, table string, patches []RecordPatch) ([]Record, error) {
	var updated []Record

	for start := 0; start < len(patches); start += maxRecordsPerRequest {
		end := start + maxRecordsPerRequest
		if end > len(patches) {
			end = len(patches)
		}

		body := struct {
			Records  []RecordPatch `json:"records"`
			Typecast bool          `json:"typecast"`
		}{Records: patches[start:end], Typecast: true}

		var resp struct {
			Records []Record `json:"records"`
		}
		if err := c.do(ctx, http.MethodPatch, c.tableURL(table), body, &resp); err != nil {
			return nil, err
		}
		updated = append(updated, resp.Records...)
	}
	return updated, nil
}

// DeleteRecord removes a single record.
func (c *Client) DeleteRecord(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table)+"/"+url.PathEscape(id), nil, nil)
}
