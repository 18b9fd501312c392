package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"designquotes/services"
	"designquotes/testhelpers"
)

func TestHandleItemCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)

	handler := HandleItemCreate(app)
	req := newJSONRequest(t, http.MethodPost, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items", map[string]any{
		"item_name":  "Piso - Porcelanato",
		"quantity":   1,
		"unit_cost":  350,
		"labor_cost": 50,
	})
	req.SetPathValue("id", quote.Id)
	req.SetPathValue("versionId", v1)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["subtotal"].(float64) != 400 {
		t.Errorf("subtotal = %v, want 400", body["subtotal"])
	}
	if body["price_with_tax"].(float64) != 476 {
		t.Errorf("price_with_tax = %v, want 476", body["price_with_tax"])
	}
	if body["tax_rate"].(float64) != 0.19 {
		t.Errorf("tax_rate = %v, want the quote default 0.19", body["tax_rate"])
	}
}

func TestHandleItemCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)
	handler := HandleItemCreate(app)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing_name", map[string]any{"quantity": 1, "unit_cost": 10}},
		{"missing_quantity", map[string]any{"item_name": "x", "unit_cost": 10}},
		{"negative_unit_cost", map[string]any{"item_name": "x", "quantity": 1, "unit_cost": -10}},
		{"negative_tax_rate", map[string]any{"item_name": "x", "quantity": 1, "unit_cost": 10, "tax_rate": -1}},
		{"negative_margin_rate", map[string]any{"item_name": "x", "quantity": 1, "unit_cost": 10, "margin_rate": -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items", tt.body)
			req.SetPathValue("id", quote.Id)
			req.SetPathValue("versionId", v1)
			rec := httptest.NewRecorder()
			if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleItemUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)
	item, err := services.AddItem(app, v1, services.ItemInput{
		ItemName: "Piso - Porcelanato", Quantity: 1, UnitCost: 350, LaborCost: 50,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	handler := HandleItemUpdate(app)
	req := newJSONRequest(t, http.MethodPut, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items/"+item.Id, map[string]any{
		"quantity": 2,
	})
	req.SetPathValue("id", quote.Id)
	req.SetPathValue("versionId", v1)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["item_name"] != "Piso - Porcelanato" {
		t.Errorf("item_name = %v, want unchanged", body["item_name"])
	}
	if body["subtotal"].(float64) != 750 {
		t.Errorf("subtotal = %v, want repriced 750", body["subtotal"])
	}
}

func TestHandleItemUpdate_SupersededVersionConflicts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)
	item, err := services.AddItem(app, v1, services.ItemInput{ItemName: "x", Quantity: 1, UnitCost: 10})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := services.CreateVersion(app, quote.Id, services.VersionOptions{}); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	handler := HandleItemUpdate(app)
	req := newJSONRequest(t, http.MethodPut, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items/"+item.Id, map[string]any{
		"quantity": 5,
	})
	req.SetPathValue("id", quote.Id)
	req.SetPathValue("versionId", v1)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleItemDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)
	item, err := services.AddItem(app, v1, services.ItemInput{ItemName: "x", Quantity: 1, UnitCost: 10})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	handler := HandleItemDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items/"+item.Id, nil)
	req.SetPathValue("id", quote.Id)
	req.SetPathValue("versionId", v1)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("quote_items", item.Id); err == nil {
		t.Error("expected item to be deleted")
	}

	// Deleting again is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items/"+item.Id, nil)
	req.SetPathValue("id", quote.Id)
	req.SetPathValue("versionId", v1)
	req.SetPathValue("itemId", item.Id)
	rec = httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleItemList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)
	if _, err := services.AddItem(app, v1, services.ItemInput{ItemName: "A", Quantity: 1, UnitCost: 100, DisplayOrder: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := services.AddItem(app, v1, services.ItemInput{ItemName: "B", Quantity: 1, UnitCost: 200, DisplayOrder: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	handler := HandleItemList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/versions/"+v1+"/items", nil)
	req.SetPathValue("id", quote.Id)
	req.SetPathValue("versionId", v1)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := decodeJSON(t, rec)
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	// Display order wins over insertion order.
	if items[0].(map[string]any)["item_name"] != "B" {
		t.Errorf("first item = %v, want B", items[0].(map[string]any)["item_name"])
	}
	totals := body["totals"].(map[string]any)
	if totals["total_cost"].(float64) != 300 {
		t.Errorf("total_cost = %v, want 300", totals["total_cost"])
	}
}
