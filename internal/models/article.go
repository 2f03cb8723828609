package models

// Article is a normalized news item fetched from the upstream API.
// PriorityScore and PriorityReason are assigned exactly once per run by the
// ranker; every other field is set at fetch time and read-only afterwards.
type Article struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Source         string  `json:"source"`
	Author         string  `json:"author,omitempty"`
	URL            string  `json:"url"`
	PublishedAt    string  `json:"published_at"`
	ImageURL       string  `json:"image_url,omitempty"`
	PriorityScore  float64 `json:"priority_score"`
	PriorityReason string  `json:"priority_reason,omitempty"`
}

// PublishPair carries an article together with its rewritten post text so the
// publish stage never has to join two slices by index.
type PublishPair struct {
	Article Article `json:"article"`
	Text    string  `json:"text"`
}

// PublishResult records the outcome of one publish attempt.
// Success is true iff PostID and PostURL are set and Error is empty.
type PublishResult struct {
	Text    string `json:"text"`
	PostID  string `json:"post_id,omitempty"`
	PostURL string `json:"post_url,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
