package rest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// failureReporter is implemented by every response body; it exposes the
// backend's "error" field.
type failureReporter interface {
	failure() string
}

// errorBody is the error field every endpoint may return.
type errorBody struct {
	Error string `json:"error,omitempty"`
}

func (e errorBody) failure() string {
	return e.Error
}

// topicsResponse is the /get-topics response format.
type topicsResponse struct {
	errorBody
	Topics []string `json:"topics"`
}

// initializeRequest is the /initialize-topic request format.
type initializeRequest struct {
	Topic string `json:"topic"`
}

// initializeResponse is the /initialize-topic response format.
type initializeResponse struct {
	errorBody
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// askRequest is the /ask request format.
type askRequest struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

// askResponse is the /ask response format.
type askResponse struct {
	errorBody
	Answer    string       `json:"answer"`
	Sources   []sourceJSON `json:"sources,omitempty"`
	WordCount int          `json:"word_count,omitempty"`
	Topic     string       `json:"topic,omitempty"`
}

// sourceJSON is one citation in an /ask response.
type sourceJSON struct {
	Page   pageNumber `json:"page"`
	Source string     `json:"source"`
}

// pageNumber accepts a JSON number, a numeric string, or anything else
// (the backend sends "Unknown"), which decodes to domain.UnknownPage.
type pageNumber int

func (p *pageNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			*p = pageNumber(i)
			return nil
		}
		if f, err := n.Float64(); err == nil {
			*p = pageNumber(int(f))
			return nil
		}
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*p = pageNumber(i)
			return nil
		}
	}

	*p = pageNumber(domain.UnknownPage)
	return nil
}

func (r askResponse) toDomain() *domain.Answer {
	answer := &domain.Answer{
		Text:      r.Answer,
		WordCount: r.WordCount,
		Topic:     domain.Topic(r.Topic),
	}
	if answer.WordCount == 0 && r.Answer != "" {
		answer.WordCount = len(strings.Fields(r.Answer))
	}
	for _, s := range r.Sources {
		answer.Sources = append(answer.Sources, domain.Citation{
			Page:   int(s.Page),
			Source: s.Source,
		})
	}
	return answer
}
