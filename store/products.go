package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Cloud-Net-Park/Gravel/models"
)

const refreshProductsKey = "products"

// RefreshProducts replaces the catalogue with the backend's active products.
// A failed fetch empties the catalogue and marks the backend unreachable.
// Overlapping calls share one fetch.
func (s *Store) RefreshProducts(ctx context.Context) error {
	_, err, _ := s.refresh.Do(refreshProductsKey, func() (interface{}, error) {
		products, err := s.backend.ListProducts(ctx)
		if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// caller cancelled, backend state unknown
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.logger.Warn("could not fetch products, showing an empty catalogue", "op", "RefreshProducts", "error", err)
			s.reachable = false
			s.products = nil
			return nil, err
		}
		s.reachable = true
		s.products = slices.DeleteFunc(products, func(p models.Product) bool { return !p.IsActive })
		return nil, nil
	})
	return err
}

// AddProduct stores a new product and adds it to the catalogue. When the
// backend cannot store it, a local record with a synthetic id is kept
// instead. Only invalid input is reported as an error.
func (s *Store) AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.Product{}, fmt.Errorf("invalid product: %w", err)
	}

	stored, err := s.backend.InsertProduct(ctx, in)
	if err != nil {
		s.logger.Warn("could not store product, keeping it locally", "op", "AddProduct", "name", in.Name, "error", err)
		local := in.ToProduct()
		local.ID = s.localID("prod")
		if local.CreatedAt.IsZero() {
			local.CreatedAt = s.now()
		}
		s.mu.Lock()
		s.products = append(s.products, local)
		s.mu.Unlock()
		return local, nil
	}

	s.mu.Lock()
	s.products = append(s.products, stored)
	s.mu.Unlock()
	s.scheduleReconcile(s.delays.Reconcile)
	return stored, nil
}

// UpdateProduct applies patch to the cached product at once, then to the
// backend. A failed backend update restores the catalogue by refetching.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	if err := s.validate.Struct(patch); err != nil {
		return fmt.Errorf("invalid product update: %w", err)
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			patch.Apply(&s.products[i])
		}
	}
	s.mu.Unlock()

	if _, err := s.backend.UpdateProduct(ctx, id, patch); err != nil {
		s.logger.Warn("could not update product, restoring from backend", "op", "UpdateProduct", "id", id, "error", err)
		_ = s.RefreshProducts(ctx)
		return nil
	}
	s.scheduleReconcile(s.delays.Reconcile)
	return nil
}

// DeleteProduct removes the product from the catalogue at once and
// deactivates it on the backend.
func (s *Store) DeleteProduct(ctx context.Context, id string) {
	s.mu.Lock()
	s.products = slices.DeleteFunc(s.products, func(p models.Product) bool { return p.ID == id })
	s.mu.Unlock()

	rows, err := s.backend.DeactivateProduct(ctx, id)
	switch {
	case err != nil && isRejected(err):
		s.logger.Warn("product delete refused, restoring", "op", "DeleteProduct", "id", id, "error", err)
		s.scheduleReconcile(s.delays.Reconcile)
	case err != nil:
		s.logger.Warn("product delete did not reach backend", "op", "DeleteProduct", "id", id, "error", err)
		s.scheduleReconcile(s.delays.ErrorRetry)
	case len(rows) > 0:
		// re-drop after the confirming read so a stale row cannot come back
		s.scheduleReconcile(s.delays.DeleteConfirm, id)
	default:
		s.scheduleReconcile(s.delays.DeleteRetry)
	}
}

// DeleteAllProducts clears the catalogue at once and deactivates every
// active product on the backend. The catalogue stays cleared when the
// backend refuses.
func (s *Store) DeleteAllProducts(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.products))
	for _, p := range s.products {
		ids = append(ids, p.ID)
	}
	s.products = nil
	s.mu.Unlock()

	n, err := s.backend.DeactivateAllProducts(ctx)
	switch {
	case err != nil && isRejected(err):
		s.logger.Warn("delete all refused, keeping catalogue cleared", "op", "DeleteAllProducts", "error", err)
	case err != nil:
		s.logger.Warn("delete all did not reach backend", "op", "DeleteAllProducts", "error", err)
		s.scheduleReconcile(s.delays.ErrorRetry)
	default:
		s.logger.Info("products deactivated", "op", "DeleteAllProducts", "count", n)
		s.scheduleReconcile(s.delays.DeleteConfirm, ids...)
	}
}

// Collection filters the catalogue by category and fabric, ignoring case.
// The "Essentials" category matches the essential flag; an empty category
// or fabric matches everything.
func (s *Store) Collection(category, fabric string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.products {
		if !matchesCategory(p, category) {
			continue
		}
		if fabric != "" && !equalFold(p.Fabric, fabric) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// EssentialsCategory selects products flagged as essentials.
const EssentialsCategory = "Essentials"

func matchesCategory(p models.Product, category string) bool {
	switch {
	case category == "":
		return true
	case equalFold(category, EssentialsCategory):
		return p.IsEssential
	default:
		return equalFold(p.Category, category)
	}
}

// scheduleReconcile refetches the catalogue after d, then drops the given
// ids in case the read still returned them.
func (s *Store) scheduleReconcile(d time.Duration, drop ...string) {
	s.sched.AfterFunc(d, func() {
		if s.ctx.Err() != nil {
			return
		}
		_ = s.RefreshProducts(s.ctx)
		if len(drop) == 0 {
			return
		}
		s.mu.Lock()
		s.products = slices.DeleteFunc(s.products, func(p models.Product) bool {
			return slices.Contains(drop, p.ID)
		})
		s.mu.Unlock()
	})
}
