package models

// AnswerResult is the pipeline's output contract. Every answer carries its
// disclaimer; degraded paths differ in content, never in shape.
type AnswerResult struct {
	ID         string   `json:"id"`
	Text       string   `json:"response"`
	Disclaimer string   `json:"disclaimer"`
	UsedModel  bool     `json:"used_model"`
	SourceIDs  []string `json:"sources"`
}
