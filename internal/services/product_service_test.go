package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"erp_backoffice/internal/models"
)

func option(name string, values ...string) models.ProductOption {
	opt := models.ProductOption{Name: name}
	for i, v := range values {
		opt.Values = append(opt.Values, models.ProductOptionValue{Value: v, SortOrder: i})
	}
	return opt
}

func TestGenerateVariantsCount(t *testing.T) {
	options := []models.ProductOption{
		option("Color", "Red", "Blue"),
		option("Size", "P", "M", "G"),
	}

	variants := GenerateVariants(options)
	if len(variants) != 6 {
		t.Fatalf("expected 2x3 = 6 variants, got %d", len(variants))
	}
	for _, v := range variants {
		if len(v.Options) != 2 {
			t.Fatalf("expected 2 option pairs per variant, got %d", len(v.Options))
		}
	}
}

func TestGenerateVariantsDeclarationOrder(t *testing.T) {
	options := []models.ProductOption{
		option("Color", "Red", "Blue"),
		option("Size", "P", "M"),
	}

	variants := GenerateVariants(options)
	wantKeys := []string{
		"Color=Red|Size=P",
		"Color=Red|Size=M",
		"Color=Blue|Size=P",
		"Color=Blue|Size=M",
	}
	if len(variants) != len(wantKeys) {
		t.Fatalf("expected %d variants, got %d", len(wantKeys), len(variants))
	}
	for i, want := range wantKeys {
		if got := variantKey(variants[i]); got != want {
			t.Errorf("variant %d key = %q, want %q", i, got, want)
		}
	}
}

func TestGenerateVariantsEmptyValueList(t *testing.T) {
	options := []models.ProductOption{
		option("Color", "Red", "Blue"),
		option("Size"), // no values
	}

	if variants := GenerateVariants(options); len(variants) != 0 {
		t.Errorf("an option with zero values must collapse to zero variants, got %d", len(variants))
	}
}

func TestGenerateVariantsNoOptions(t *testing.T) {
	if variants := GenerateVariants(nil); len(variants) != 0 {
		t.Errorf("a product without options has no variants, got %d", len(variants))
	}
}

func TestBuildOptionsDuplicateName(t *testing.T) {
	_, err := buildOptions([]ProductOptionInput{
		{Name: "Color", Values: []string{"Red"}},
		{Name: "color", Values: []string{"Blue"}},
	})
	if !errors.Is(err, ErrDuplicateOption) {
		t.Errorf("expected ErrDuplicateOption, got %v", err)
	}
}

func TestBuildOptionsDuplicateValue(t *testing.T) {
	_, err := buildOptions([]ProductOptionInput{
		{Name: "Size", Values: []string{"M", "m"}},
	})
	if !errors.Is(err, ErrDuplicateOptionVal) {
		t.Errorf("expected ErrDuplicateOptionVal, got %v", err)
	}
}

func TestBuildOptionsSortOrder(t *testing.T) {
	options, err := buildOptions([]ProductOptionInput{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"P"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if options[0].SortOrder != 0 || options[1].SortOrder != 1 {
		t.Errorf("option sort order must follow declaration order, got %d and %d", options[0].SortOrder, options[1].SortOrder)
	}
	if options[0].Values[1].SortOrder != 1 {
		t.Errorf("value sort order must follow declaration order, got %d", options[0].Values[1].SortOrder)
	}
}

func TestBuildAggregateAppliesVariantPatches(t *testing.T) {
	sku := "TS-RED-M"
	price := decimal.RequireFromString("59.90")
	svc := &productService{}

	product, err := svc.buildAggregate(SaveProductRequest{
		Name:       "T-shirt",
		CategoryID: 1,
		Options: []ProductOptionInput{
			{Name: "Color", Values: []string{"Red"}},
			{Name: "Size", Values: []string{"M", "G"}},
		},
		VariantPatches: map[string]VariantPatch{
			"Color=Red|Size=M": {SKU: &sku, Price: &price},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(product.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(product.Variants))
	}

	patched := product.Variants[0]
	if patched.SKU == nil || *patched.SKU != sku {
		t.Errorf("expected patched variant SKU %q, got %v", sku, patched.SKU)
	}
	if patched.Price == nil || !patched.Price.Equal(price) {
		t.Errorf("expected patched variant price %s, got %v", price, patched.Price)
	}

	unpatched := product.Variants[1]
	if unpatched.SKU != nil || unpatched.Price != nil {
		t.Error("unpatched variant must keep blank SKU and price")
	}
}
