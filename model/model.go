package model

// Token represents a morpheme produced by the segmenter.
type Token struct {
	Text     string   `json:"text"`
	POS      string   `json:"pos,omitempty"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	TokenID  int      `json:"token_id,omitempty"`
	Known    bool     `json:"known"`
	Features []string `json:"features,omitempty"`
}

// LexEntry pairs a syllable token with its vocabulary id.
type LexEntry struct {
	Token string `json:"token"`
	ID    int    `json:"id"`
	Known bool   `json:"known"`
}
