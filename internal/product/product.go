package product

import (
	"strconv"
	"strings"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

// Product is a catalogue item as the backend returns it. Image and Images
// hold file names served under /products/image/ and /products/images/.
type Product struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	OldPrice     *float64 `json:"oldPrice"`
	Rating       float64  `json:"rating"`
	Review       int64    `json:"review"`
	Image        *string  `json:"image"`
	Images       []string `json:"images"`
	Quantity     int64    `json:"quantity"`
	CategoryID   int64    `json:"categoryId"`
	BrandID      int64    `json:"brandId"`
	SKU          string   `json:"sku"`
	Availability bool     `json:"availability"`
	New          bool     `json:"new"`
	Sale         bool     `json:"sale"`
}

// LowStock is the quantity at or under which stock is flagged as running out.
const LowStock = 10

// Stock labels a quantity for the list and detail screens.
func Stock(quantity int64) (label, tone string) {
	switch {
	case quantity <= 0:
		return "Out of stock", "danger"
	case quantity <= LowStock:
		return "Low stock", "warning"
	}
	return "In stock", "success"
}

// Input is what the add and edit forms submit.
type Input struct {
	Name         string
	Description  string
	Price        float64
	OldPrice     *float64
	Rating       *float64
	Review       *int64
	Quantity     int64
	CategoryID   *int64
	BrandID      *int64
	SKU          string
	Availability bool
	New          bool
	Sale         bool
	Image        *api.Upload
	Images       []api.Upload
}

// ValidationError lists every rule a submitted product breaks.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid product: " + strings.Join(e.Problems, "; ")
}

type rule struct {
	field   string
	broken  func(Input) bool
	message string
}

var rules = []rule{
	{"quantity", func(in Input) bool { return in.Quantity < 0 }, "Quantity cannot be negative"},
	{"price", func(in Input) bool { return in.Price <= 0 }, "Price must be greater than 0"},
	{"oldPrice", func(in Input) bool { return in.OldPrice != nil && *in.OldPrice < 0 }, "Old price cannot be negative"},
	{"rating", func(in Input) bool { return in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) }, "Rating must be between 0 and 5"},
	{"review", func(in Input) bool { return in.Review != nil && *in.Review < 0 }, "Review count cannot be negative"},
}

// Validate checks the numeric fields, one problem per broken rule.
func Validate(in Input) []string {
	return validate(in, nil)
}

// validate skips the rules of fields listed in unreadable.
func validate(in Input, unreadable map[string]bool) []string {
	var problems []string
	for _, r := range rules {
		if !unreadable[r.field] && r.broken(in) {
			problems = append(problems, r.message)
		}
	}
	return problems
}

// Form encodes in as the multipart body the backend expects. A product with
// nothing in stock is never sent as available.
func (in Input) Form() *api.Form {
	f := api.NewForm().
		Set("name", strings.TrimSpace(in.Name)).
		SetIf("description", strings.TrimSpace(in.Description)).
		Set("price", web.Num(in.Price))
	if in.OldPrice != nil {
		f.Set("oldPrice", web.Num(*in.OldPrice))
	}
	if in.Rating != nil {
		f.Set("rating", web.Num(*in.Rating))
	}
	if in.Review != nil {
		f.Set("review", web.Itoa(*in.Review))
	}
	f.Attach("imageFile", in.Image)
	for i := range in.Images {
		f.Attach("imageFiles", &in.Images[i])
	}
	f.Set("quantity", web.Itoa(in.Quantity))
	if in.CategoryID != nil {
		f.Set("categoryId", web.Itoa(*in.CategoryID))
	}
	if in.BrandID != nil {
		f.Set("brandId", web.Itoa(*in.BrandID))
	}
	f.SetIf("sku", strings.TrimSpace(in.SKU))
	f.Set("availability", strconv.FormatBool(in.Availability && in.Quantity > 0))
	f.Set("new", strconv.FormatBool(in.New))
	f.Set("sale", strconv.FormatBool(in.Sale))
	return f
}

// Input is the editable part of p, used to prefill the edit form.
func (p Product) Input() Input {
	in := Input{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		OldPrice:     p.OldPrice,
		Quantity:     p.Quantity,
		SKU:          p.SKU,
		Availability: p.Availability,
		New:          p.New,
		Sale:         p.Sale,
	}
	rating, review := p.Rating, p.Review
	in.Rating, in.Review = &rating, &review
	if p.CategoryID != 0 {
		id := p.CategoryID
		in.CategoryID = &id
	}
	if p.BrandID != 0 {
		id := p.BrandID
		in.BrandID = &id
	}
	return in
}
