package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SchemeType represents the category of a savings scheme
type SchemeType string

const (
	SchemeTypeGold    SchemeType = "gold"
	SchemeTypeDiamond SchemeType = "diamond"
)

// SchemeBasis tells whether a gold scheme is denominated in currency
// amount or in metal weight. Diamond schemes are always amount based.
type SchemeBasis string

const (
	SchemeBasisWeight SchemeBasis = "weight"
	SchemeBasisAmount SchemeBasis = "amount"
)

// Scheme is a savings plan definition. Once a subscription references a
// scheme, later edits affect only future reads; the subscription keeps
// its snapshotted initial amount.
type Scheme struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SchemeName  string       `gorm:"type:varchar(255);not null" json:"scheme_name"`
	SchemeType  SchemeType   `gorm:"type:varchar(20);not null;index" json:"scheme_type"`
	MinAmount   float64      `gorm:"type:decimal(15,2)" json:"min_amount"`
	MaxAmount   float64      `gorm:"type:decimal(15,2)" json:"max_amount"`
	Basis       *SchemeBasis `gorm:"type:varchar(20)" json:"is_weight_or_amount,omitempty"`
	MinWeight   *float64     `gorm:"type:decimal(10,3)" json:"min_weight,omitempty"`
	MaxWeight   *float64     `gorm:"type:decimal(10,3)" json:"max_weight,omitempty"`
	Duration    int          `gorm:"not null" json:"duration"`
	Description string       `gorm:"type:text" json:"scheme_description,omitempty"`
}

// WeightBounds describes the allowed weight range of a weight-basis
// gold scheme, in grams.
type WeightBounds struct {
	Min float64
	Max float64
}

// SchemeParams carries validated scheme attributes into NewScheme.
// Gold schemes declare their basis through exactly one of Weight or
// AmountBased; diamond schemes declare neither.
type SchemeParams struct {
	Name        string
	Type        string
	MinAmount   float64
	MaxAmount   float64
	Duration    int
	Description string

	// Gold only: exactly one of the two below
	Weight      *WeightBounds
	AmountBased bool
}

// NewScheme validates params and builds a Scheme. The scheme type is
// normalized case-insensitively to gold or diamond; any other value is
// rejected. Weight bounds are accepted only for weight-basis gold schemes.
func NewScheme(p SchemeParams) (*Scheme, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("scheme_name is required")
	}
	if p.Duration <= 0 {
		return nil, fmt.Errorf("duration must be a positive number of months")
	}

	t := SchemeType(strings.ToLower(strings.TrimSpace(p.Type)))
	if t != SchemeTypeGold && t != SchemeTypeDiamond {
		return nil, fmt.Errorf("invalid scheme_type %q: allowed values are gold or diamond", p.Type)
	}

	s := &Scheme{
		SchemeName:  p.Name,
		SchemeType:  t,
		MinAmount:   p.MinAmount,
		MaxAmount:   p.MaxAmount,
		Duration:    p.Duration,
		Description: p.Description,
	}

	switch t {
	case SchemeTypeDiamond:
		if p.Weight != nil || p.AmountBased {
			return nil, fmt.Errorf("basis options are valid only for gold schemes")
		}
	case SchemeTypeGold:
		if p.Weight != nil && p.AmountBased {
			return nil, fmt.Errorf("gold scheme cannot be both weight and amount based")
		}
		if p.Weight == nil && !p.AmountBased {
			return nil, fmt.Errorf("gold scheme requires a basis: weight bounds or amount")
		}
		if p.Weight != nil {
			if p.Weight.Min <= 0 || p.Weight.Max < p.Weight.Min {
				return nil, fmt.Errorf("invalid weight bounds: min %v, max %v", p.Weight.Min, p.Weight.Max)
			}
			basis := SchemeBasisWeight
			s.Basis = &basis
			min, max := p.Weight.Min, p.Weight.Max
			s.MinWeight = &min
			s.MaxWeight = &max
		} else {
			basis := SchemeBasisAmount
			s.Basis = &basis
		}
	}

	return s, nil
}

// IsWeightBased reports whether subscriptions against this scheme are
// requested in grams rather than currency.
func (s Scheme) IsWeightBased() bool {
	return s.Basis != nil && *s.Basis == SchemeBasisWeight
}
