package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// ListProducts returns the active products, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/products", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// InsertProduct stores a new product and returns the stored row.
func (c *Client) InsertProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var out struct {
		Product models.Product `json:"product"`
	}
	err := c.do(ctx, http.MethodPost, "/rest/products", in, &out, nil)
	return out.Product, err
}

// UpdateProduct patches product id and returns the stored row.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	var out struct {
		Product models.Product `json:"product"`
	}
	err := c.do(ctx, http.MethodPatch, "/rest/products/"+url.PathEscape(id), patch, &out, nil)
	return out.Product, err
}

// DeactivateProduct soft deletes product id. The returned rows are the ones
// that changed; none means the product was already gone.
func (c *Client) DeactivateProduct(ctx context.Context, id string) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodDelete, "/rest/products/"+url.PathEscape(id), nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// DeactivateAllProducts soft deletes every active product.
func (c *Client) DeactivateAllProducts(ctx context.Context) (int64, error) {
	var out struct {
		Deactivated int64 `json:"deactivated"`
	}
	err := c.do(ctx, http.MethodDelete, "/rest/products", nil, &out, nil)
	return out.Deactivated, err
}

// ListUsers returns every registered user, most recent first.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/users", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// ListFitProfiles returns every fit profile with its owner's name and email.
func (c *Client) ListFitProfiles(ctx context.Context) ([]models.FitProfile, error) {
	var out struct {
		FitProfiles []models.FitProfile `json:"fit_profiles"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/fit-profiles", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.FitProfiles, nil
}

// UpsertFitProfile saves the profile for in.UserID, replacing any existing one.
func (c *Client) UpsertFitProfile(ctx context.Context, in models.FitProfileInput) (models.FitProfile, error) {
	var out struct {
		FitProfile models.FitProfile `json:"fit_profile"`
	}
	err := c.do(ctx, http.MethodPost, "/rest/fit-profiles", in, &out, nil)
	return out.FitProfile, err
}

// UpdateFitProfile patches the profile owned by userID.
func (c *Client) UpdateFitProfile(ctx context.Context, userID string, patch models.FitProfilePatch) (models.FitProfile, error) {
	var out struct {
		FitProfile models.FitProfile `json:"fit_profile"`
	}
	err := c.do(ctx, http.MethodPatch, "/rest/fit-profiles/"+url.PathEscape(userID), patch, &out, nil)
	return out.FitProfile, err
}

// DeleteFitProfile removes the profile owned by userID.
func (c *Client) DeleteFitProfile(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/rest/fit-profiles/"+url.PathEscape(userID), nil, nil, nil)
}
