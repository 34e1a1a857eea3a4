package models

import "testing"

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		minQuantity int
		want        string
	}{
		{"zero quantity is out of stock", 0, 10, StockStatusOut},
		{"zero quantity with zero minimum is still out", 0, 0, StockStatusOut},
		{"below minimum is low", 3, 10, StockStatusLow},
		{"one unit with zero minimum is normal", 1, 0, StockStatusNormal},
		{"exactly at minimum is normal", 10, 10, StockStatusNormal},
		{"above minimum is normal", 50, 10, StockStatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStockStatus(tt.quantity, tt.minQuantity); got != tt.want {
				t.Errorf("DeriveStockStatus(%d, %d) = %q, want %q", tt.quantity, tt.minQuantity, got, tt.want)
			}
		})
	}
}
