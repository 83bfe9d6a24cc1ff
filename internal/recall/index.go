// Package recall maintains a full-text index over saved session transcripts
// so the recall tool can surface relevant past conversations.
package recall

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/Sma1lboy/ArcticAI/internal/session"
)

// Result is one transcript hit.
type Result struct {
	SessionID string
	Title     string
	Score     float64
	Snippet   string
}

// Index wraps a bleve index of session transcripts.
type Index struct {
	index bleve.Index
	path  string
}

// NewIndex creates or opens the transcript index. A corrupted index is
// deleted and rebuilt from scratch; transcripts on disk remain the source of
// truth.
func NewIndex(indexPath string) (*Index, error) {
	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create recall index: %w", err)
		}
	} else if err != nil {
		log.Printf("WARNING: recall index appears corrupted (error: %v), recreating", err)
		if index != nil {
			index.Close()
		}
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("failed to remove corrupted recall index: %w", err)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate recall index: %w", err)
		}
	}

	return &Index{index: index, path: indexPath}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	sessionIDField := bleve.NewTextFieldMapping()
	sessionIDField.Analyzer = keyword.Name
	sessionIDField.Store = true
	sessionIDField.Index = true
	docMapping.AddFieldMappingsAt("session_id", sessionIDField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	titleField.Index = true
	docMapping.AddFieldMappingsAt("title", titleField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = true
	textField.Index = true
	docMapping.AddFieldMappingsAt("text", textField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexSession indexes (or re-indexes) one session transcript.
func (ix *Index) IndexSession(sess *session.Session) error {
	var b strings.Builder
	for _, m := range sess.History {
		if m.Content == "" {
			continue
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}

	doc := map[string]interface{}{
		"session_id": sess.ID,
		"title":      sess.Title,
		"text":       b.String(),
	}
	return ix.index.Index(sess.ID, doc)
}

// DeleteSession removes a transcript from the index.
func (ix *Index) DeleteSession(sessionID string) error {
	return ix.index.Delete(sessionID)
}

// Search returns the top k transcripts matching the query.
func (ix *Index) Search(query string, k int) ([]Result, error) {
	if k <= 0 {
		k = 5
	}

	q := bleve.NewMatchQuery(query)
	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = k
	searchRequest.Fields = []string{"session_id", "title", "text"}

	searchResult, err := ix.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("recall search failed: %w", err)
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := Result{
			SessionID: hit.ID,
			Score:     hit.Score,
		}
		if title, ok := hit.Fields["title"].(string); ok {
			result.Title = title
		}
		if text, ok := hit.Fields["text"].(string); ok {
			result.Snippet = snippet(text, 240)
		}
		results = append(results, result)
	}
	return results, nil
}

// Close closes the underlying bleve index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

func snippet(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
