package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/cartographer/internal/model"
)

func TestStandard_RingsAndBeltsAreWorthless(t *testing.T) {
	calc := Standard{}
	assert.Zero(t, calc.ScanValue(ValueInput{Type: model.BodyRing, SubType: "Icy"}))
	assert.Zero(t, calc.ScanValue(ValueInput{Type: model.BodyBeltCluster}))
}

func TestStandard_MappingIncreasesValue(t *testing.T) {
	calc := Standard{}
	in := ValueInput{Type: model.BodyPlanet, SubType: "Water world", Mass: 0.8, WasDiscovered: true, WasMapped: true}

	fss := calc.ScanValue(in)
	in.IsMapped = true
	dss := calc.ScanValue(in)
	in.Efficient = true
	efficient := calc.ScanValue(in)

	assert.Greater(t, dss, fss)
	assert.Greater(t, efficient, dss)
}

func TestStandard_FirstDiscoveryBonus(t *testing.T) {
	calc := Standard{}
	known := calc.ScanValue(ValueInput{Type: model.BodyPlanet, SubType: "Icy body", Mass: 0.1, WasDiscovered: true})
	first := calc.ScanValue(ValueInput{Type: model.BodyPlanet, SubType: "Icy body", Mass: 0.1})
	assert.Greater(t, first, known)
}

func TestStandard_TerraformableWorthMore(t *testing.T) {
	calc := Standard{}
	plain := calc.ScanValue(ValueInput{Type: model.BodyPlanet, SubType: "High metal content body", Mass: 0.5, WasDiscovered: true})
	terra := calc.ScanValue(ValueInput{Type: model.BodyPlanet, SubType: "High metal content body", Mass: 0.5, WasDiscovered: true, Terraformable: true})
	assert.Greater(t, terra, plain)
}

func TestStandard_Stars(t *testing.T) {
	calc := Standard{}
	main := calc.ScanValue(ValueInput{Type: model.BodyStar, SubType: "G", Mass: 1, WasDiscovered: true})
	neutron := calc.ScanValue(ValueInput{Type: model.BodyStar, SubType: "N", Mass: 1, WasDiscovered: true})
	dwarf := calc.ScanValue(ValueInput{Type: model.BodyStar, SubType: "DA", Mass: 1, WasDiscovered: true})

	assert.Equal(t, int64(1218), main)
	assert.Greater(t, neutron, dwarf)
	assert.Greater(t, dwarf, main)
}

func TestStandard_MinimumPlanetValue(t *testing.T) {
	v := Standard{}.ScanValue(ValueInput{Type: model.BodyPlanet, SubType: "Icy body", Mass: 0.0001, WasDiscovered: true})
	assert.Equal(t, int64(minValue), v)
}

func TestInputFor_UsesMass(t *testing.T) {
	mass := 2.5
	b := model.Body{Type: model.BodyPlanet, SubType: "High metal content body", Mass: &mass}

	in := InputFor(b, true, true)
	assert.Equal(t, 2.5, in.Mass)
	assert.True(t, in.IsMapped)
	assert.True(t, in.Efficient)

	b.Mass = nil
	assert.Zero(t, InputFor(b, false, false).Mass)
}
