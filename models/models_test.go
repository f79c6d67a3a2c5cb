package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalePrice(t *testing.T) {
	assert.Equal(t, 100.0, Product{Price: 100}.SalePrice())
	assert.Equal(t, 90.0, Product{Price: 100, OfferPercentage: 10}.SalePrice())
	assert.Equal(t, 33.49, Product{Price: 49.99, OfferPercentage: 33}.SalePrice())
	assert.Equal(t, 0.0, Product{Price: 100, OfferPercentage: 150}.SalePrice())
}

func TestProductPatchApplyAndColumns(t *testing.T) {
	name := "Renamed"
	sizes := SizeList{"L"}
	patch := ProductPatch{Name: &name, Sizes: &sizes}

	p := Product{ID: "p1", Name: "Old", Price: 10, Sizes: SizeList{"S"}}
	patch.Apply(&p)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, 10.0, p.Price)
	assert.Equal(t, SizeList{"L"}, p.Sizes)

	cols := patch.Columns()
	assert.Len(t, cols, 2)
	assert.Equal(t, "Renamed", cols["name"])

	// the patch must not alias the product's slice
	sizes[0] = "XL"
	assert.Equal(t, SizeList{"L"}, p.Sizes)
}

func TestProductInputToProduct(t *testing.T) {
	p := ProductInput{Name: "Tee", Price: 5, IsEssential: true}.ToProduct()
	assert.Empty(t, p.ID)
	assert.True(t, p.IsActive)
	assert.True(t, p.IsEssential)
	assert.True(t, p.CreatedAt.IsZero())
}

func TestSizeListValueAndScan(t *testing.T) {
	v, err := SizeList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = SizeList{"S", "M"}.Value()
	require.NoError(t, err)

	var got SizeList
	require.NoError(t, got.Scan(v))
	assert.Equal(t, SizeList{"S", "M"}, got)

	require.NoError(t, got.Scan([]byte(`["XL"]`)))
	assert.Equal(t, SizeList{"XL"}, got)

	require.NoError(t, got.Scan(nil))
	assert.Nil(t, got)

	assert.Error(t, got.Scan(42))
	assert.Error(t, got.Scan("not json"))
}

func TestSummarizeCart(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "p1", Price: 0.1}, Quantity: 3, SelectedSize: "M"},
		{Product: Product{ID: "p2", Price: 0.2}, Quantity: 1, SelectedSize: "S"},
	}
	summary := SummarizeCart(items)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, 0.5, summary.TotalAmount)
	assert.Equal(t, "0.5", CartTotal(items).String())
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("lost").Valid())
}

func TestIdentityFor(t *testing.T) {
	id := IdentityFor(User{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	assert.Equal(t, "Ada", id.UserMetadata["name"])

	id = IdentityFor(User{ID: "u2", Email: "x@example.com"})
	assert.Nil(t, id.UserMetadata)
}

func TestUserPatchApplyCopiesAddress(t *testing.T) {
	addr := Address{City: "Leeds"}
	u := User{ID: "u1"}
	UserPatch{Address: &addr}.Apply(&u)
	addr.City = "York"
	require.NotNil(t, u.Address)
	assert.Equal(t, "Leeds", u.Address.City)
}

func TestFitProfilePatch(t *testing.T) {
	fit := FitSlim
	size := "S"
	patch := FitProfilePatch{PreferredFit: &fit, PreferredSize: &size}

	f := FitProfileInput{UserID: "u1", PreferredFit: FitRelaxed, PreferredSize: "L", Height: "170"}.ToProfile()
	patch.Apply(&f)
	assert.Equal(t, FitSlim, f.PreferredFit)
	assert.Equal(t, "S", f.PreferredSize)
	assert.Equal(t, "170", f.Height)
	assert.Equal(t, map[string]interface{}{"preferred_fit": "slim", "preferred_size": "S"}, patch.Columns())
}

func TestDefaultShippingAddress(t *testing.T) {
	assert.Equal(t, Address{Country: "United Kingdom"}, DefaultShippingAddress())
}
