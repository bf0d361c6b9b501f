package dto

// SingleInputRequest is the body of optimize, reply and ideate.
type SingleInputRequest struct {
	Input string `json:"input" validate:"required"`
}

// MultiItemRequest is the body of audit and niche. Older clients send the
// list as "tweets".
type MultiItemRequest struct {
	Items  []string `json:"items"`
	Tweets []string `json:"tweets"`
	Handle string   `json:"handle"`
}

// List returns the submitted items, preferring "items" over "tweets".
// ok is false when neither key carried an array.
func (r MultiItemRequest) List() (items []string, ok bool) {
	if r.Items != nil {
		return r.Items, true
	}
	if r.Tweets != nil {
		return r.Tweets, true
	}
	return nil, false
}

type VisualRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type VisualResponse struct {
	Image string `json:"image"`
}
