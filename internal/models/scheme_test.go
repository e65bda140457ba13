package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheme(t *testing.T) {
	tests := []struct {
		name    string
		params  SchemeParams
		wantErr bool
		check   func(t *testing.T, s *Scheme)
	}{
		{
			name: "diamond scheme has no basis",
			params: SchemeParams{
				Name: "Diamond Elite", Type: "diamond",
				MinAmount: 1000, MaxAmount: 100000, Duration: 11,
			},
			check: func(t *testing.T, s *Scheme) {
				assert.Equal(t, SchemeTypeDiamond, s.SchemeType)
				assert.Nil(t, s.Basis)
				assert.False(t, s.IsWeightBased())
			},
		},
		{
			name: "gold amount basis",
			params: SchemeParams{
				Name: "Gold Saver", Type: "gold",
				MinAmount: 500, MaxAmount: 50000, Duration: 11,
				AmountBased: true,
			},
			check: func(t *testing.T, s *Scheme) {
				require.NotNil(t, s.Basis)
				assert.Equal(t, SchemeBasisAmount, *s.Basis)
				assert.False(t, s.IsWeightBased())
			},
		},
		{
			name: "gold weight basis",
			params: SchemeParams{
				Name: "Gram Saver", Type: "gold", Duration: 11,
				Weight: &WeightBounds{Min: 1, Max: 10},
			},
			check: func(t *testing.T, s *Scheme) {
				assert.True(t, s.IsWeightBased())
				require.NotNil(t, s.MinWeight)
				require.NotNil(t, s.MaxWeight)
				assert.Equal(t, 1.0, *s.MinWeight)
				assert.Equal(t, 10.0, *s.MaxWeight)
			},
		},
		{
			name: "scheme type is case insensitive",
			params: SchemeParams{
				Name: "Gold Saver", Type: "  GOLD ", Duration: 11,
				AmountBased: true,
			},
			check: func(t *testing.T, s *Scheme) {
				assert.Equal(t, SchemeTypeGold, s.SchemeType)
			},
		},
		{
			name: "unknown type rejected",
			params: SchemeParams{
				Name: "Silver Saver", Type: "silver", Duration: 11,
				AmountBased: true,
			},
			wantErr: true,
		},
		{
			name:    "missing name rejected",
			params:  SchemeParams{Type: "gold", Duration: 11, AmountBased: true},
			wantErr: true,
		},
		{
			name:    "non positive duration rejected",
			params:  SchemeParams{Name: "Gold Saver", Type: "gold", AmountBased: true},
			wantErr: true,
		},
		{
			name: "gold without basis rejected",
			params: SchemeParams{
				Name: "Gold Saver", Type: "gold", Duration: 11,
			},
			wantErr: true,
		},
		{
			name: "gold with both bases rejected",
			params: SchemeParams{
				Name: "Gold Saver", Type: "gold", Duration: 11,
				AmountBased: true, Weight: &WeightBounds{Min: 1, Max: 10},
			},
			wantErr: true,
		},
		{
			name: "diamond with basis rejected",
			params: SchemeParams{
				Name: "Diamond Elite", Type: "diamond", Duration: 11,
				AmountBased: true,
			},
			wantErr: true,
		},
		{
			name: "inverted weight bounds rejected",
			params: SchemeParams{
				Name: "Gram Saver", Type: "gold", Duration: 11,
				Weight: &WeightBounds{Min: 10, Max: 1},
			},
			wantErr: true,
		},
		{
			name: "zero minimum weight rejected",
			params: SchemeParams{
				Name: "Gram Saver", Type: "gold", Duration: 11,
				Weight: &WeightBounds{Min: 0, Max: 10},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheme, err := NewScheme(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, scheme)
			}
		})
	}
}

func TestKYCComplete(t *testing.T) {
	complete := User{
		AadhaarNumber: "123456789012",
		PANNumber:     "ABCDE1234F",
		AadhaarImages: []string{"a1"},
		PANImages:     []string{"p1"},
	}
	assert.True(t, complete.KYCComplete())

	tests := []struct {
		name   string
		mutate func(u *User)
	}{
		{"missing aadhaar number", func(u *User) { u.AadhaarNumber = "" }},
		{"missing pan number", func(u *User) { u.PANNumber = "" }},
		{"no aadhaar images", func(u *User) { u.AadhaarImages = nil }},
		{"no pan images", func(u *User) { u.PANImages = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := complete
			tt.mutate(&u)
			assert.False(t, u.KYCComplete())
		})
	}
}
