package news

import "github.com/deusflow/railnews/internal/sentiment"

// NeutralSubjectivity replaces the model confidence for NEUTRAL articles.
const NeutralSubjectivity = 0.1

// Article is a normalized news item. Link is the identity key.
// Sentiment and Subjectivity are filled in by ScoreSentiment.
type Article struct {
	Title        string          `json:"title"`
	Link         string          `json:"link"`
	Published    string          `json:"published"`
	Description  string          `json:"description,omitempty"`
	Sentiment    sentiment.Label `json:"sentiment"`
	Subjectivity float64         `json:"subjectivity"`
}
