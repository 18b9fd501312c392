package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

func spaceJSON(space *core.Record) map[string]any {
	return map[string]any{
		"id":            space.Id,
		"project":       space.GetString("project"),
		"name":          space.GetString("name"),
		"description":   space.GetString("description"),
		"display_order": space.GetFloat("display_order"),
	}
}

// HandleSpaceList returns a project's spaces in display order.
func HandleSpaceList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return jsonError(e, http.StatusNotFound, "project not found")
		}

		spaces, err := app.FindRecordsByFilter(
			"spaces",
			"project = {:projectId}",
			"display_order,name",
			0,
			0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			log.Printf("space_list: query failed for project %s: %v", projectID, err)
			spaces = nil
		}

		out := make([]map[string]any, 0, len(spaces))
		for _, space := range spaces {
			out = append(out, spaceJSON(space))
		}

		return e.JSON(http.StatusOK, map[string]any{"spaces": out})
	}
}

// HandleSpaceCreate adds a space to a project.
func HandleSpaceCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return jsonError(e, http.StatusNotFound, "project not found")
		}

		body := struct {
			Name         string  `json:"name"`
			Description  string  `json:"description"`
			DisplayOrder float64 `json:"display_order"`
		}{}
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Name) == "" {
			return jsonError(e, http.StatusBadRequest, "space name is required")
		}

		col, err := app.FindCollectionByNameOrId("spaces")
		if err != nil {
			return mapServiceError(e, "space_create", err)
		}

		space := core.NewRecord(col)
		space.Set("project", projectID)
		space.Set("name", strings.TrimSpace(body.Name))
		space.Set("description", body.Description)
		space.Set("display_order", body.DisplayOrder)
		if err := app.Save(space); err != nil {
			return mapServiceError(e, "space_create", err)
		}

		return e.JSON(http.StatusCreated, spaceJSON(space))
	}
}

// HandleSpaceUpdate renames or reorders a space.
func HandleSpaceUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		space, err := app.FindRecordById("spaces", e.Request.PathValue("spaceId"))
		if err != nil || space.GetString("project") != e.Request.PathValue("projectId") {
			return jsonError(e, http.StatusNotFound, "space not found")
		}

		body := struct {
			Name         *string  `json:"name"`
			Description  *string  `json:"description"`
			DisplayOrder *float64 `json:"display_order"`
		}{}
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			if strings.TrimSpace(*body.Name) == "" {
				return jsonError(e, http.StatusBadRequest, "space name is required")
			}
			space.Set("name", strings.TrimSpace(*body.Name))
		}
		if body.Description != nil {
			space.Set("description", *body.Description)
		}
		if body.DisplayOrder != nil {
			space.Set("display_order", *body.DisplayOrder)
		}

		if err := app.Save(space); err != nil {
			return mapServiceError(e, "space_update", err)
		}

		return e.JSON(http.StatusOK, spaceJSON(space))
	}
}

// HandleSpaceDelete removes a space. Items that referenced it fall back to
// the ungrouped bucket on the next read.
func HandleSpaceDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		space, err := app.FindRecordById("spaces", e.Request.PathValue("spaceId"))
		if err != nil || space.GetString("project") != e.Request.PathValue("projectId") {
			return jsonError(e, http.StatusNotFound, "space not found")
		}

		// Detach items before deleting so they survive as ungrouped.
		items, err := app.FindRecordsByFilter(
			"quote_items",
			"space = {:spaceId}",
			"",
			0,
			0,
			map[string]any{"spaceId": space.Id},
		)
		if err == nil {
			for _, item := range items {
				item.Set("space", "")
				if err := app.Save(item); err != nil {
					log.Printf("space_delete: could not detach item %s: %v", item.Id, err)
				}
			}
		}

		if err := app.Delete(space); err != nil {
			return mapServiceError(e, "space_delete", err)
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}
