package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nichelens-be/pkg/analysis"
)

// RemoteStore addresses the backend's per-owner history table. The backend
// scopes every call to the owner carried by the bearer token.
type RemoteStore struct {
	BaseURL string
	Token   string
	OwnerID string
	Client  *http.Client
}

var _ Store = (*RemoteStore)(nil)

func NewRemoteStore(baseURL, token, ownerID string) *RemoteStore {
	return &RemoteStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		OwnerID: ownerID,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// remoteItem is the row as served by the backend; Timestamp is an instant.
type remoteItem struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      analysis.Mode   `json:"type"`
	Input     string          `json:"input"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

type remoteEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type appendRequest struct {
	Type   analysis.Mode   `json:"type"`
	Input  string          `json:"input"`
	Result analysis.Result `json:"result"`
}

func (r remoteItem) toItem() (Item, error) {
	res, err := analysis.NewResult(r.Type)
	if err != nil {
		return Item{}, err
	}
	if len(r.Result) > 0 {
		if err := json.Unmarshal(r.Result, res); err != nil {
			return Item{}, fmt.Errorf("history item %s: %w", r.ID, err)
		}
	}
	return Item{
		ID:        r.ID,
		OwnerID:   r.UserID,
		CreatedAt: r.Timestamp.UnixMilli(),
		Mode:      r.Type,
		Input:     r.Input,
		Result:    res,
	}, nil
}

func (s *RemoteStore) Append(ctx context.Context, mode analysis.Mode, input string, result analysis.Result) (Item, error) {
	var row remoteItem
	if err := s.do(ctx, http.MethodPost, "/api/history", appendRequest{Type: mode, Input: input, Result: result}, &row); err != nil {
		return Item{}, err
	}
	return row.toItem()
}

func (s *RemoteStore) List(ctx context.Context) ([]Item, error) {
	var rows []remoteItem
	if err := s.do(ctx, http.MethodGet, "/api/history", nil, &rows); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RemoteStore) Remove(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/history/"+url.PathEscape(id), nil, nil)
}

func (s *RemoteStore) Clear(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, "/api/history", nil, nil)
}

func (s *RemoteStore) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payloadJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)

	res, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("history %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env remoteEnvelope
	_ = json.Unmarshal(resBody, &env)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = strings.TrimSpace(string(resBody))
		}
		return fmt.Errorf("history %s %s: status %d: %s", method, path, res.StatusCode, msg)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode history response: %w", err)
	}
	return nil
}
