package core

import "github.com/miracleworks/shopsearch-go/pkg/storage"

// toStorageProduct converts a core.Product to its storage mirror.
func toStorageProduct(p *Product) *storage.Product {
	if p == nil {
		return nil
	}
	return &storage.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		SKU:         p.SKU,
		Category:    p.Category,
		Brand:       p.Brand,
		ImageURL:    p.ImageURL,
		ProductURL:  p.ProductURL,
		StoreName:   p.StoreName,
		Embedding:   p.Embedding,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// fromStorageProduct converts a storage.Product back to the core type.
func fromStorageProduct(p *storage.Product) *Product {
	if p == nil {
		return nil
	}
	return &Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		SKU:         p.SKU,
		Category:    p.Category,
		Brand:       p.Brand,
		ImageURL:    p.ImageURL,
		ProductURL:  p.ProductURL,
		StoreName:   p.StoreName,
		Embedding:   p.Embedding,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Score:       p.Score,
	}
}

// toResult maps a scored storage row to the caller-facing result view.
// The embedding itself is never surfaced.
func toResult(p *storage.Product) Result {
	return Result{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		ProductURL:  p.ProductURL,
		Category:    p.Category,
		Brand:       p.Brand,
		Similarity:  p.Score,
	}
}
