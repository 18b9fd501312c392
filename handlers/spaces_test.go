package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"designquotes/services"
	"designquotes/testhelpers"
)

func TestHandleSpaceCreateAndList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Casa Roma")

	create := HandleSpaceCreate(app)
	for _, space := range []struct {
		name  string
		order float64
	}{
		{"Cocina", 2},
		{"Sala", 1},
	} {
		req := newJSONRequest(t, http.MethodPost, "/api/projects/"+project.Id+"/spaces", map[string]any{
			"name":          space.name,
			"display_order": space.order,
		})
		req.SetPathValue("projectId", project.Id)
		rec := httptest.NewRecorder()
		if err := create(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("create %s: %v", space.name, err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d: %s", space.name, rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+project.Id+"/spaces", nil)
	req.SetPathValue("projectId", project.Id)
	rec := httptest.NewRecorder()
	if err := HandleSpaceList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("list: %v", err)
	}

	body := decodeJSON(t, rec)
	spaces, _ := body["spaces"].([]any)
	if len(spaces) != 2 {
		t.Fatalf("expected 2 spaces, got %d", len(spaces))
	}
	first, _ := spaces[0].(map[string]any)
	if first["name"] != "Sala" {
		t.Errorf("expected Sala first by display_order, got %v", first["name"])
	}
}

func TestHandleSpaceCreate_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Casa Roma")

	req := newJSONRequest(t, http.MethodPost, "/api/projects/"+project.Id+"/spaces", map[string]any{
		"name": "   ",
	})
	req.SetPathValue("projectId", project.Id)
	rec := httptest.NewRecorder()
	if err := HandleSpaceCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a blank name, got %d", rec.Code)
	}
}

func TestHandleSpaceList_UnknownProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/missing/spaces", nil)
	req.SetPathValue("projectId", "missing")
	rec := httptest.NewRecorder()
	if err := HandleSpaceList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleSpaceUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Casa Roma")
	space := testhelpers.CreateTestSpace(t, app, project.Id, "Cosina", 1)

	req := newJSONRequest(t, http.MethodPut, "/api/projects/"+project.Id+"/spaces/"+space.Id, map[string]any{
		"name": "Cocina",
	})
	req.SetPathValue("projectId", project.Id)
	req.SetPathValue("spaceId", space.Id)
	rec := httptest.NewRecorder()
	if err := HandleSpaceUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["name"] != "Cocina" {
		t.Errorf("name = %v", body["name"])
	}
	if body["display_order"] != float64(1) {
		t.Errorf("display_order changed unexpectedly: %v", body["display_order"])
	}
}

func TestHandleSpaceUpdate_WrongProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Casa Roma")
	other := testhelpers.CreateTestProject(t, app, "Depto Condesa")
	space := testhelpers.CreateTestSpace(t, app, other.Id, "Cocina", 1)

	req := newJSONRequest(t, http.MethodPut, "/api/projects/"+project.Id+"/spaces/"+space.Id, map[string]any{
		"name": "Terraza",
	})
	req.SetPathValue("projectId", project.Id)
	req.SetPathValue("spaceId", space.Id)
	rec := httptest.NewRecorder()
	if err := HandleSpaceUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a space from another project, got %d", rec.Code)
	}
}

func TestHandleSpaceDelete_DetachesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote, v1 := newQuoteWithVersion(t, app)
	projectID := quote.GetString("project")
	space := testhelpers.CreateTestSpace(t, app, projectID, "Cocina", 1)

	item, err := services.AddItem(app, v1, services.ItemInput{
		SpaceID: space.Id, ItemName: "Piso", Quantity: 1, UnitCost: 400,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+projectID+"/spaces/"+space.Id, nil)
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("spaceId", space.Id)
	rec := httptest.NewRecorder()
	if err := HandleSpaceDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := app.FindRecordById("spaces", space.Id); err == nil {
		t.Error("space should be deleted")
	}
	fresh, err := app.FindRecordById("quote_items", item.Id)
	if err != nil {
		t.Fatalf("item should survive the space delete: %v", err)
	}
	if fresh.GetString("space") != "" {
		t.Errorf("item still references the deleted space: %q", fresh.GetString("space"))
	}
}
