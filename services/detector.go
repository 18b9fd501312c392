package services

import (
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// DraftItem is an unpriced quotation line produced by detection. Pricing is
// filled in later when the draft is attached to a version.
type DraftItem struct {
	ItemName    string
	Category    string
	Description string
	Materials   []string
	MaterialIDs []string
	Quantity    float64
	UnitID      string
	UnitCost    float64
	LaborCost   float64
	ImageID     string
}

// MaterialReplacement is one material/color swap recorded in an enhancement's
// metadata.
type MaterialReplacement struct {
	TargetElement    string
	FromMaterialID   string
	FromMaterialName string
	ToMaterialID     string
	ToMaterialName   string
}

// ElementAddition is one furniture/element addition recorded in an
// enhancement's metadata.
type ElementAddition struct {
	ElementID     string
	ElementName   string
	ElementNameEs string
}

// EnhancementMetadata is the parsed shape of an image's metadata JSON.
type EnhancementMetadata struct {
	EnhancementType string
	Replacements    []MaterialReplacement
	Elements        []ElementAddition
}

// ParseEnhancementMetadata decodes an image record's metadata field. The
// metadata is written by an external image pipeline, so fields are read with
// loose coercion and missing or malformed values fall back to zero values.
func ParseEnhancementMetadata(image *core.Record) EnhancementMetadata {
	var raw map[string]any
	if err := image.UnmarshalJSONField("metadata", &raw); err != nil || raw == nil {
		return EnhancementMetadata{}
	}

	meta := EnhancementMetadata{
		EnhancementType: cast.ToString(raw["enhancement_type"]),
	}

	for _, entry := range cast.ToSlice(raw["replacements"]) {
		m := cast.ToStringMap(entry)
		if m == nil {
			continue
		}
		meta.Replacements = append(meta.Replacements, MaterialReplacement{
			TargetElement:    cast.ToString(m["targetElement"]),
			FromMaterialID:   cast.ToString(m["fromMaterialId"]),
			FromMaterialName: cast.ToString(m["fromMaterialName"]),
			ToMaterialID:     cast.ToString(m["toMaterialId"]),
			ToMaterialName:   cast.ToString(m["toMaterialName"]),
		})
	}

	for _, entry := range cast.ToSlice(raw["elements"]) {
		m := cast.ToStringMap(entry)
		if m == nil {
			continue
		}
		meta.Elements = append(meta.Elements, ElementAddition{
			ElementID:     cast.ToString(m["elementId"]),
			ElementName:   cast.ToString(m["elementName"]),
			ElementNameEs: cast.ToString(m["elementNameEs"]),
		})
	}

	return meta
}

// DetectItems maps an enhancement image to zero or more draft quotation
// items by resolving each referenced library entity. Replacements and
// elements without a resolvable active cost record produce no item: not all
// visual edits are billable. Cost-library lookup failures are logged and the
// affected entry skipped; detection itself never fails.
func DetectItems(app core.App, image *core.Record) []DraftItem {
	meta := ParseEnhancementMetadata(image)
	var items []DraftItem

	for _, rep := range meta.Replacements {
		if rep.ToMaterialID == "" {
			// Pure color tweak with no library reference.
			continue
		}

		cost, err := ResolveMaterialCost(app, rep.ToMaterialID)
		if err != nil {
			if err != ErrCostNotFound {
				log.Printf("detector: material %s unresolvable for image %s: %v", rep.ToMaterialID, image.Id, err)
			}
			continue
		}

		name := cost.Name
		if name == "" {
			name = rep.ToMaterialName
		}
		if name == "" {
			name = "Material"
		}

		items = append(items, DraftItem{
			ItemName:    rep.TargetElement + " - " + name,
			Category:    rep.TargetElement,
			Materials:   []string{name},
			MaterialIDs: []string{rep.ToMaterialID},
			Quantity:    1,
			UnitID:      cost.UnitID,
			UnitCost:    cost.BaseCost,
			LaborCost:   cost.LaborCostPerUnit,
			ImageID:     image.Id,
		})
	}

	for _, el := range meta.Elements {
		if el.ElementID == "" {
			continue
		}

		cost, err := ResolveElementCost(app, el.ElementID)
		if err != nil {
			if err != ErrCostNotFound {
				log.Printf("detector: element %s unresolvable for image %s: %v", el.ElementID, image.Id, err)
			}
			continue
		}

		name := el.ElementNameEs
		if name == "" {
			name = el.ElementName
		}
		if name == "" {
			name = cost.Name
		}
		if name == "" {
			name = "Elemento"
		}

		category := cost.Category
		if category == "" {
			category = "Otro"
		}

		items = append(items, DraftItem{
			ItemName:  name,
			Category:  category,
			Quantity:  1,
			UnitID:    cost.UnitID,
			UnitCost:  cost.BaseCost,
			LaborCost: cost.LaborCostPerUnit,
			ImageID:   image.Id,
		})
	}

	return items
}
