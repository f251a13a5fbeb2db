package valuation

import (
	"math"
	"strings"

	"github.com/roach88/cartographer/internal/model"
)

// ValueInput describes a body for scan value calculation.
type ValueInput struct {
	Type          model.BodyType
	SubType       string
	Terraformable bool
	Mass          float64
	WasDiscovered bool
	WasMapped     bool
	IsMapped      bool
	Efficient     bool
}

// InputFor describes a body for ScanValue. A body with unknown mass is
// valued at zero mass.
func InputFor(b model.Body, mapped, efficient bool) ValueInput {
	in := ValueInput{
		Type:          b.Type,
		SubType:       b.SubType,
		Terraformable: b.Terraformable,
		WasDiscovered: b.WasDiscovered,
		WasMapped:     b.WasMapped,
		IsMapped:      mapped,
		Efficient:     efficient,
	}
	if b.Mass != nil {
		in.Mass = *b.Mass
	}
	return in
}

// Calculator computes the credit value of scanning a body.
type Calculator interface {
	ScanValue(in ValueInput) int64
}

// Standard is the community-documented exploration payout approximation.
type Standard struct{}

const (
	massExponent = 0.2
	planetQ      = 0.56591828
	minValue     = 500
)

// ScanValue implements Calculator.
func (Standard) ScanValue(in ValueInput) int64 {
	switch in.Type {
	case model.BodyRing, model.BodyBeltCluster:
		return 0
	case model.BodyStar:
		return starValue(in)
	default:
		return planetValue(in)
	}
}

func starValue(in ValueInput) int64 {
	k := 1200.0
	switch {
	case isWhiteDwarf(in.SubType):
		k = 14057
	case in.SubType == "N" || in.SubType == "H" || in.SubType == "SupermassiveBlackHole":
		k = 22628
	}
	v := k + in.Mass*k/66.25
	if !in.WasDiscovered {
		v *= 2.6
	}
	return int64(math.Round(v))
}

func isWhiteDwarf(subType string) bool {
	return strings.HasPrefix(subType, "D")
}

func planetK(subType string, terraformable bool) float64 {
	switch subType {
	case "Metal rich body":
		return 21790
	case "Ammonia world":
		return 96932
	case "Sudarsky class I gas giant":
		return 1656
	case "Sudarsky class II gas giant", "High metal content body":
		if terraformable {
			return 9654 + 100677
		}
		return 9654
	case "Water world":
		if terraformable {
			return 64831 + 116295
		}
		return 64831
	case "Earthlike body":
		return 64831 + 116295
	}
	if terraformable {
		return 300 + 93328
	}
	return 300
}

func planetValue(in ValueInput) int64 {
	k := planetK(in.SubType, in.Terraformable)
	mass := in.Mass
	if mass <= 0 {
		mass = 1
	}
	base := k + k*planetQ*math.Pow(mass, massExponent)

	mult := 1.0
	if in.IsMapped {
		switch {
		case !in.WasDiscovered && !in.WasMapped:
			mult = 3.699622554
		case !in.WasMapped:
			mult = 8.0956
		default:
			mult = 3.3333333333
		}
		if in.Efficient {
			mult *= 1.25
		}
	}

	v := math.Max(minValue, base*mult)
	if in.IsMapped {
		v += math.Max(v*0.3, 555)
	}
	if !in.WasDiscovered {
		v *= 2.6
	}
	return int64(math.Round(v))
}
