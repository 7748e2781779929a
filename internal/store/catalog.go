package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"FoodExpress/internal/kv"
)

// UncategorizedID marks products whose category reference resolves to
// nothing. It never names a stored category.
const UncategorizedID = "uncategorized"

var Uncategorized = Category{ID: UncategorizedID, Name: "Chưa phân loại"}

func (s *Store) readProducts(ctx context.Context) ([]Product, error) {
	return readDoc(ctx, s.origin.KV, kv.KeyProducts, DefaultProducts)
}

func (s *Store) readCategories(ctx context.Context) ([]Category, error) {
	return readDoc(ctx, s.origin.KV, kv.KeyCategories, DefaultCategories)
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}

	seen := make(map[string]struct{}, len(p.Toppings))
	for _, t := range p.Toppings {
		if t.ID == "" {
			return fmt.Errorf("%w: topping id required", ErrInvalidProduct)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate topping %s", ErrInvalidProduct, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.Price.IsNegative() {
			return fmt.Errorf("%w: negative topping price %s", ErrInvalidProduct, t.ID)
		}
	}
	return nil
}

func indexProduct(products []Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func indexCategory(categories []Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) AddProduct(ctx context.Context, p Product) error {
	return s.mutate(ctx, "add_product", func(ctx context.Context) error {
		if err := validateProduct(p); err != nil {
			return err
		}

		products, err := s.readProducts(ctx)
		if err != nil {
			return err
		}
		if indexProduct(products, p.ID) >= 0 {
			return fmt.Errorf("%w: product %s", ErrDuplicateID, p.ID)
		}

		products = append(products, cloneProduct(p))
		return writeDoc(ctx, s.origin.KV, kv.KeyProducts, products)
	})
}

func (s *Store) UpdateProduct(ctx context.Context, p Product) error {
	return s.mutate(ctx, "update_product", func(ctx context.Context) error {
		if err := validateProduct(p); err != nil {
			return err
		}

		products, err := s.readProducts(ctx)
		if err != nil {
			return err
		}
		i := indexProduct(products, p.ID)
		if i < 0 {
			return errNoMatch
		}

		products[i] = cloneProduct(p)
		return writeDoc(ctx, s.origin.KV, kv.KeyProducts, products)
	})
}

// DeleteProduct leaves orders alone: their lines are copies.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_product", func(ctx context.Context) error {
		products, err := s.readProducts(ctx)
		if err != nil {
			return err
		}
		i := indexProduct(products, id)
		if i < 0 {
			return errNoMatch
		}

		products = append(products[:i], products[i+1:]...)
		return writeDoc(ctx, s.origin.KV, kv.KeyProducts, products)
	})
}

// AddCategory assigns a fresh id. Names must be unique because products
// refer to categories by name.
func (s *Store) AddCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	c := Category{ID: uuid.NewString(), Name: name}

	err := s.mutate(ctx, "add_category", func(ctx context.Context) error {
		if name == "" {
			return fmt.Errorf("%w: name required", ErrInvalidCategory)
		}

		categories, err := s.readCategories(ctx)
		if err != nil {
			return err
		}
		for _, existing := range categories {
			if existing.Name == name {
				return fmt.Errorf("%w: name %q already used", ErrInvalidCategory, name)
			}
		}

		categories = append(categories, c)
		return writeDoc(ctx, s.origin.KV, kv.KeyCategories, categories)
	})
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

// UpdateCategory renames in place. Products keep their old category string.
func (s *Store) UpdateCategory(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)

	return s.mutate(ctx, "update_category", func(ctx context.Context) error {
		if name == "" {
			return fmt.Errorf("%w: name required", ErrInvalidCategory)
		}

		categories, err := s.readCategories(ctx)
		if err != nil {
			return err
		}
		i := indexCategory(categories, id)
		if i < 0 {
			return errNoMatch
		}
		for _, existing := range categories {
			if existing.ID != id && existing.Name == name {
				return fmt.Errorf("%w: name %q already used", ErrInvalidCategory, name)
			}
		}

		categories[i].Name = name
		return writeDoc(ctx, s.origin.KV, kv.KeyCategories, categories)
	})
}

// DeleteCategory never cascades to products that still name it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_category", func(ctx context.Context) error {
		categories, err := s.readCategories(ctx)
		if err != nil {
			return err
		}
		i := indexCategory(categories, id)
		if i < 0 {
			return errNoMatch
		}

		categories = append(categories[:i], categories[i+1:]...)
		return writeDoc(ctx, s.origin.KV, kv.KeyCategories, categories)
	})
}

// CategoryOf resolves p's category by stable id first, then by name.
// Unresolved references come back as Uncategorized.
func (s *Store) CategoryOf(p Product) Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolveCategory(s.snap.Categories, p)
}

func resolveCategory(categories []Category, p Product) Category {
	if p.CategoryID != "" {
		if i := indexCategory(categories, p.CategoryID); i >= 0 {
			return categories[i]
		}
	}
	for _, c := range categories {
		if c.Name == p.Category {
			return c
		}
	}
	return Uncategorized
}

// ProductsInCategory filters by resolved category. UncategorizedID selects
// products whose reference resolves to nothing.
func (s *Store) ProductsInCategory(categoryID string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range s.snap.Products {
		if resolveCategory(s.snap.Categories, p).ID == categoryID {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}
