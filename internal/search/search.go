// Package search keeps an Elasticsearch index of catalog products and runs
// full-text queries against it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/models"
)

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

// document is the indexed form of a product. Elasticsearch reserves _id, so
// the id is stored under a plain field.
type document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	SellerID    string    `json:"seller"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toDocument(p *models.Product) document {
	return document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Image:       p.Image,
		SellerID:    p.SellerID.String(),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d document) product() models.Product {
	id, _ := uuid.Parse(d.ID)
	seller, _ := uuid.Parse(d.SellerID)
	return models.Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
		Category:    d.Category,
		Image:       d.Image,
		SellerID:    seller,
		Status:      models.ProductStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (ix *Index) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(toDocument(p))
	if err != nil {
		return err
	}

	res, err := ix.ES.Index(ix.Name, bytes.NewReader(body),
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (ix *Index) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := ix.ES.Delete(ix.Name, id.String(), ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product: %s", res.Status())
	}
	return nil
}

func searchBody(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "description", "category"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": string(models.ProductApproved)},
				},
			},
		},
		"from": from,
		"size": size,
	}
}

// Search returns approved products matching query, best match first.
func (ix *Index) Search(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(query, offset, limit)); err != nil {
		return nil, 0, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		items = append(items, hit.Source.product())
	}
	return items, r.Hits.Total.Value, nil
}
