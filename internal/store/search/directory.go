// internal/store/search/directory.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"project-workers/internal/common/logger"
	"project-workers/internal/models"
)

const defaultPageSize = 500

// Directory lists active employees from an Elasticsearch index.
type Directory struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
	logger   logger.Logger
}

func NewDirectory(client *elasticsearch.Client, index string, log logger.Logger) *Directory {
	return &Directory{
		client:   client,
		index:    index,
		pageSize: defaultPageSize,
		logger:   log.WithFields(map[string]interface{}{"component": "employee-directory", "index": index}),
	}
}

type employeeDoc struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Skills       json.RawMessage `json:"skills"`
	Availability string          `json:"availability"`
	Department   string          `json:"department"`
	Active       bool            `json:"active"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source employeeDoc    `json:"_source"`
			Sort   []interface{} `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

// ActiveEmployees pages through every active employee ordered by creation time.
func (d *Directory) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	var (
		employees   []models.Employee
		searchAfter []interface{}
	)

	for {
		page, err := d.searchPage(ctx, searchAfter)
		if err != nil {
			return nil, err
		}

		for _, hit := range page.Hits.Hits {
			employees = append(employees, d.toEmployee(hit.Source))
		}

		if len(page.Hits.Hits) < d.pageSize {
			break
		}
		searchAfter = page.Hits.Hits[len(page.Hits.Hits)-1].Sort
	}

	d.logger.Debug("loaded active employees", map[string]interface{}{"count": len(employees)})
	return employees, nil
}

func (d *Directory) buildQuery(searchAfter []interface{}) map[string]interface{} {
	query := map[string]interface{}{
		"size": d.pageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"active": true}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]interface{}{"order": "asc"}},
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		},
	}
	if len(searchAfter) > 0 {
		query["search_after"] = searchAfter
	}
	return query
}

func (d *Directory) searchPage(ctx context.Context, searchAfter []interface{}) (*searchResponse, error) {
	body, err := json.Marshal(d.buildQuery(searchAfter))
	if err != nil {
		return nil, fmt.Errorf("encode employee query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{d.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", d.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("search %s: %s: %s", d.index, res.Status(), bytes.TrimSpace(msg))
	}

	var page searchResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &page, nil
}

func (d *Directory) toEmployee(doc employeeDoc) models.Employee {
	return models.Employee{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		Phone:        doc.Phone,
		Skills:       d.decodeSkills(doc.ID, doc.Skills),
		Availability: models.Availability(doc.Availability),
		Department:   doc.Department,
		Active:       doc.Active,
	}
}

// decodeSkills treats a missing or non-array skills field as no skills.
func (d *Directory) decodeSkills(employeeID string, raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		d.logger.Warn("ignoring malformed skills", map[string]interface{}{
			"employeeId": employeeID,
			"error":      err.Error(),
		})
		return []string{}
	}
	if skills == nil {
		skills = []string{}
	}
	return skills
}
