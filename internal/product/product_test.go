package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

func ptr[T any](v T) *T { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want []string
	}{
		{name: "valid", in: Input{Price: 100000, Quantity: 3, Rating: ptr(4.5), Review: ptr(int64(2))}},
		{name: "zero price", in: Input{Price: 0}, want: []string{"Price must be greater than 0"}},
		{name: "rating at bounds", in: Input{Price: 1, Rating: ptr(5.0)}},
		{name: "rating above five", in: Input{Price: 1, Rating: ptr(5.5)}, want: []string{"Rating must be between 0 and 5"}},
		{
			name: "every rule",
			in:   Input{Price: -1, Quantity: -2, OldPrice: ptr(-3.0), Rating: ptr(-0.1), Review: ptr(int64(-4))},
			want: []string{
				"Quantity cannot be negative",
				"Price must be greater than 0",
				"Old price cannot be negative",
				"Rating must be between 0 and 5",
				"Review count cannot be negative",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.in))
		})
	}
}

func TestStock(t *testing.T) {
	for qty, want := range map[int64]string{0: "Out of stock", 1: "Low stock", 10: "Low stock", 11: "In stock"} {
		label, _ := Stock(qty)
		assert.Equal(t, want, label, "quantity %d", qty)
	}
}

func TestInput_Form(t *testing.T) {
	in := Input{
		Name:         " Phone X ",
		Price:        1250000,
		Quantity:     0,
		BrandID:      ptr(int64(7)),
		Availability: true,
		Sale:         true,
		Image:        &api.Upload{Filename: "main.png", Content: []byte("png")},
		Images:       []api.Upload{{Filename: "a.png", Content: []byte("a")}, {Filename: "empty.png"}},
	}
	f := in.Form()

	value := func(name string) string {
		v, _ := f.Value(name)
		return v
	}
	assert.Equal(t, "Phone X", value("name"))
	assert.Equal(t, "1250000", value("price"))
	assert.Equal(t, "0", value("quantity"))
	assert.Equal(t, "7", value("brandId"))
	assert.Equal(t, "false", value("availability"), "nothing in stock is never available")
	assert.Equal(t, "false", value("new"))
	assert.Equal(t, "true", value("sale"))

	for _, absent := range []string{"description", "oldPrice", "rating", "review", "categoryId", "sku"} {
		_, ok := f.Value(absent)
		assert.False(t, ok, "%s should be omitted", absent)
	}
	assert.Equal(t, []string{"main.png"}, f.Files("imageFile"))
	assert.Equal(t, []string{"a.png"}, f.Files("imageFiles"))
}

func TestProduct_InputRoundTrip(t *testing.T) {
	p := Product{ID: 3, Name: "Phone", Price: 10, Rating: 4, Review: 9, Quantity: 5, CategoryID: 2}
	in := p.Input()
	assert.Equal(t, int64(2), *in.CategoryID)
	assert.Nil(t, in.BrandID)
	assert.Equal(t, 4.0, *in.Rating)
	assert.Empty(t, Validate(in))
}
