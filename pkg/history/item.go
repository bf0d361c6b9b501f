package history

import (
	"context"
	"encoding/json"
	"fmt"

	"nichelens-be/pkg/analysis"
)

// Item is one persisted input/result pair. CreatedAt is epoch milliseconds on
// both backends.
type Item struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"user_id,omitempty"`
	CreatedAt int64           `json:"timestamp"`
	Mode      analysis.Mode   `json:"type"`
	Input     string          `json:"input"`
	Result    analysis.Result `json:"result"`
}

type itemJSON struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"user_id,omitempty"`
	CreatedAt int64           `json:"timestamp"`
	Mode      analysis.Mode   `json:"type"`
	Input     string          `json:"input"`
	Result    json.RawMessage `json:"result"`
}

// UnmarshalJSON restores the concrete result type from the item's mode.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	res, err := analysis.NewResult(raw.Mode)
	if err != nil {
		return err
	}
	if len(raw.Result) > 0 && string(raw.Result) != "null" {
		if err := json.Unmarshal(raw.Result, res); err != nil {
			return fmt.Errorf("history item %s: %w", raw.ID, err)
		}
	}

	*i = Item{
		ID:        raw.ID,
		OwnerID:   raw.OwnerID,
		CreatedAt: raw.CreatedAt,
		Mode:      raw.Mode,
		Input:     raw.Input,
		Result:    res,
	}
	return nil
}

// Store is the backend-agnostic history contract. List is most recent first.
// Remove of an unknown id is not an error.
type Store interface {
	Append(ctx context.Context, mode analysis.Mode, input string, result analysis.Result) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
