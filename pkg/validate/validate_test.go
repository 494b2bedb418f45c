package validate_test

import (
	"testing"

	"github.com/dkrylov/camshop/pkg/validate"
)

type productInput struct {
	Name  string  `json:"name"  validate:"required,min=2,max=255"`
	Slug  string  `json:"slug"  validate:"required,slug,max=255"`
	SKU   string  `json:"sku"   validate:"required,alpha_dash,max=100"`
	Price float64 `json:"price" validate:"required,gte=0"`
	Stock int     `json:"stock" validate:"nullable,integer,gte=0"`
	Sort  string  `json:"sort"  validate:"nullable,in=name-asc,name-desc,price-asc,price-desc"`
	Image string  `json:"image" validate:"nullable,url"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:  "Dome Camera 4MP",
		Slug:  "dome-camera-4mp",
		SKU:   "CAM-4001",
		Price: 129.99,
		Stock: 12,
		Sort:  "price-desc",
		Image: "https://cdn.example.com/cam.jpg",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "slug", "sku"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestSlugRule(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,slug"`
	}
	for _, bad := range []string{"Dome Camera", "dome_camera", "-dome", "dome-", "DOME"} {
		if errs := validate.Struct(in{Slug: bad}); !validate.HasErrors(errs) {
			t.Errorf("expected slug %q to fail", bad)
		}
	}
	for _, good := range []string{"dome", "dome-camera-4mp", "4mp"} {
		if errs := validate.Struct(in{Slug: good}); validate.HasErrors(errs) {
			t.Errorf("expected slug %q to pass, got: %v", good, errs)
		}
	}
}

func TestInRuleKeepsMultiValueParams(t *testing.T) {
	type in struct {
		Sort string `json:"sort" validate:"required,in=name-asc,name-desc,price-asc,price-desc,max=20"`
	}
	if errs := validate.Struct(in{Sort: "rating-desc"}); !validate.HasErrors(errs) {
		t.Error("expected unknown sort to fail")
	}
	if errs := validate.Struct(in{Sort: "price-asc"}); validate.HasErrors(errs) {
		t.Errorf("expected price-asc to pass: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"required,gte=0,lte=100000"`
	}
	if errs := validate.Struct(in{Price: -5}); !validate.HasErrors(errs) {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: 59.5}); validate.HasErrors(errs) {
		t.Errorf("expected 59.5 to pass, got: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Image string `json:"image" validate:"nullable,url"`
	}
	if errs := validate.Struct(in{Image: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Image: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Qty int `json:"qty" validate:"required,between=1,99"`
	}
	if errs := validate.Struct(in{Qty: 100}); !validate.HasErrors(errs) {
		t.Error("expected 100 to fail")
	}
	if errs := validate.Struct(in{Qty: 3}); validate.HasErrors(errs) {
		t.Errorf("expected 3 to pass: %v", errs)
	}
}
