package docsearch

import (
	"encoding/json"

	"huddle/domain"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
)

const DocumentIndexName = "huddle-documents"

var (
	IndexDocumentFunc       = IndexDocument
	RemoveDocumentIndexFunc = RemoveDocumentIndex
	SearchDocumentsFunc     = SearchDocuments
)

type DocumentHit struct {
	Document domain.Document `json:"document"`
	Score    float64         `json:"score"`
}

func IndexDocument(doc *domain.Document, s *session.Session) error {
	return indexDoc(DocumentIndexName, doc.ID, doc, s)
}

func RemoveDocumentIndex(id types.ID, s *session.Session) error {
	return deleteDoc(DocumentIndexName, id, s)
}

// SearchDocuments matches the query text against title and content, limited
// to the given (resourceType, ids) scopes. Empty scopes yield no hits: the
// caller computed them from the access resolver.
func SearchDocuments(query string, scopes map[string][]types.ID, s *session.Session) ([]DocumentHit, error) {
	shoulds := []H{}
	for resourceType, ids := range scopes {
		if len(ids) == 0 {
			continue
		}
		idValues := make([]string, 0, len(ids))
		for _, id := range ids {
			idValues = append(idValues, id.String())
		}
		shoulds = append(shoulds, H{"bool": H{"filter": []H{
			{"term": H{"resourceType.keyword": resourceType}},
			{"terms": H{"resourceId": idValues}},
		}}})
	}
	if len(shoulds) == 0 {
		return []DocumentHit{}, nil
	}

	esQuery := H{"query": H{"bool": H{
		"must": []H{
			{"multi_match": H{"query": query, "fields": []string{"title^2", "content"}}},
		},
		"filter": []H{
			{"bool": H{"should": shoulds, "minimum_should_match": 1}},
		},
	}}}

	result, err := search(DocumentIndexName, esQuery, s)
	if err != nil {
		return nil, err
	}

	hits := make([]DocumentHit, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		doc := domain.Document{}
		if err := json.Unmarshal([]byte(hit.Source), &doc); err != nil {
			return nil, err
		}
		hits = append(hits, DocumentHit{Document: doc, Score: hit.Score})
	}
	return hits, nil
}
