package services

import (
	"errors"
	"testing"
	"time"

	"designquotes/testhelpers"
)

func TestResolveMaterialCost(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	unit := testhelpers.CreateTestUnit(t, app, "Metro cuadrado", "m²")
	material := testhelpers.CreateTestMaterial(t, app, "Porcelain tile", "Porcelanato", unit.Id, 350, 50)

	cost, err := ResolveMaterialCost(app, material.Id)
	if err != nil {
		t.Fatalf("ResolveMaterialCost() error = %v", err)
	}
	if cost.Name != "Porcelanato" {
		t.Errorf("Name = %q, want the Spanish display name", cost.Name)
	}
	if cost.BaseCost != 350 || cost.LaborCostPerUnit != 50 {
		t.Errorf("cost = %v/%v, want 350/50", cost.BaseCost, cost.LaborCostPerUnit)
	}
	if cost.UnitID != unit.Id {
		t.Errorf("UnitID = %q, want %q", cost.UnitID, unit.Id)
	}
}

func TestResolveMaterialCost_LatestWins(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	unit := testhelpers.CreateTestUnit(t, app, "Metro cuadrado", "m²")
	material := testhelpers.CreateTestMaterial(t, app, "Quartz", "Cuarzo", unit.Id, 900, 120)

	// Autodate precision is milliseconds; keep the records apart.
	time.Sleep(5 * time.Millisecond)
	testhelpers.CreateTestMaterialCost(t, app, material.Id, unit.Id, 950, 130, true)

	cost, err := ResolveMaterialCost(app, material.Id)
	if err != nil {
		t.Fatalf("ResolveMaterialCost() error = %v", err)
	}
	if cost.BaseCost != 950 {
		t.Errorf("BaseCost = %v, want the newer record's 950", cost.BaseCost)
	}
}

func TestResolveMaterialCost_InactiveSkipped(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	unit := testhelpers.CreateTestUnit(t, app, "Metro cuadrado", "m²")
	material := testhelpers.CreateTestMaterial(t, app, "Stucco", "Estuco", unit.Id, 180, 90)

	time.Sleep(5 * time.Millisecond)
	testhelpers.CreateTestMaterialCost(t, app, material.Id, unit.Id, 9999, 0, false)

	cost, err := ResolveMaterialCost(app, material.Id)
	if err != nil {
		t.Fatalf("ResolveMaterialCost() error = %v", err)
	}
	if cost.BaseCost != 180 {
		t.Errorf("BaseCost = %v, want 180 (newer record is inactive)", cost.BaseCost)
	}
}

func TestResolveMaterialCost_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, err := ResolveMaterialCost(app, "nonexistent")
	if !errors.Is(err, ErrCostNotFound) {
		t.Errorf("error = %v, want ErrCostNotFound", err)
	}

	_, err = ResolveMaterialCost(app, "")
	if !errors.Is(err, ErrCostNotFound) {
		t.Errorf("empty id error = %v, want ErrCostNotFound", err)
	}
}

func TestResolveElementCost(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	unit := testhelpers.CreateTestUnit(t, app, "Pieza", "pza")
	element := testhelpers.CreateTestElement(t, app, "Pendant lamp", "Lámpara colgante", unit.Id, 800, 150)

	cost, err := ResolveElementCost(app, element.Id)
	if err != nil {
		t.Fatalf("ResolveElementCost() error = %v", err)
	}
	if cost.Name != "Lámpara colgante" {
		t.Errorf("Name = %q, want the Spanish display name", cost.Name)
	}
	if cost.BaseCost != 800 || cost.LaborCostPerUnit != 150 {
		t.Errorf("cost = %v/%v, want 800/150", cost.BaseCost, cost.LaborCostPerUnit)
	}
}

func TestUnitSymbol(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	unit := testhelpers.CreateTestUnit(t, app, "Metro lineal", "ml")

	if got := UnitSymbol(app, unit.Id); got != "ml" {
		t.Errorf("UnitSymbol = %q, want %q", got, "ml")
	}
	if got := UnitSymbol(app, ""); got != "" {
		t.Errorf("UnitSymbol(empty) = %q, want empty", got)
	}
	if got := UnitSymbol(app, "missing"); got != "" {
		t.Errorf("UnitSymbol(missing) = %q, want empty", got)
	}
}
