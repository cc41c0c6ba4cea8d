package extraction

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/hyperifyio/presskeywords/internal/content"
	"github.com/hyperifyio/presskeywords/internal/store"
)

// Response is the API projection of a record. Content is a preview.
type Response struct {
	Record             store.Record
	WordCount          int
	TotalKeywords      int
	KeywordsByCategory map[string]int
}

func newResponse(rec store.Record, wordCount int) Response {
	rec.Content = content.Preview(rec.Content, content.PreviewChars)
	return Response{
		Record:             rec,
		WordCount:          wordCount,
		TotalKeywords:      rec.Keywords.Total(),
		KeywordsByCategory: rec.Keywords.Counts(),
	}
}

type responseHead struct {
	ID        string          `json:"id"`
	URL       *string         `json:"url,omitempty"`
	Content   string          `json:"content"`
	InputType store.InputType `json:"inputType"`
}

type responseStats struct {
	WordCount          int            `json:"wordCount"`
	TotalKeywords      int            `json:"totalKeywords"`
	KeywordsByCategory map[string]int `json:"keywordsByCategory"`
}

type responseTail struct {
	Method         store.Method  `json:"extractionMethod"`
	Confidence     int           `json:"confidenceScore"`
	ExtractionTime int64         `json:"extractionTime"`
	CreatedAt      time.Time     `json:"createdAt"`
	Stats          responseStats `json:"stats"`
}

// MarshalJSON inlines the category arrays between the identifying fields
// and the method and stats fields.
func (r Response) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(responseHead{
		ID:        r.Record.ID,
		URL:       r.Record.URL,
		Content:   r.Record.Content,
		InputType: r.Record.InputType,
	})
	if err != nil {
		return nil, err
	}
	cats, err := r.Record.Keywords.CategoryFields()
	if err != nil {
		return nil, err
	}
	tail, err := json.Marshal(responseTail{
		Method:         r.Record.Method,
		Confidence:     r.Record.Confidence,
		ExtractionTime: r.Record.ExtractionTime.Milliseconds(),
		CreatedAt:      r.Record.CreatedAt,
		Stats: responseStats{
			WordCount:          r.WordCount,
			TotalKeywords:      r.TotalKeywords,
			KeywordsByCategory: r.KeywordsByCategory,
		},
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(head[:len(head)-1])
	if len(cats) > 0 {
		buf.WriteByte(',')
		buf.Write(cats)
	}
	buf.WriteByte(',')
	buf.Write(tail[1:])
	return buf.Bytes(), nil
}
