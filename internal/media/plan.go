package media

import (
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

// ImagePlan is the storage work needed to move a product from its persisted
// image list to a requested one.
type ImagePlan struct {
	// Unchanged is set when no image list was requested; nothing else is populated
	// except Kept, which then mirrors the existing list.
	Unchanged bool
	Kept      []string
	ToUpload  []string
	ToDelete  []string
}

// PlanImageChanges partitions requested into references to keep and inline images
// to upload, and lists every existing reference the caller dropped. A nil requested
// slice means the field was omitted and leaves images untouched; an empty non-nil
// slice deletes everything. Relative order is preserved within each partition.
func PlanImageChanges(existing, requested []string) (ImagePlan, error) {
	if requested == nil {
		return ImagePlan{Unchanged: true, Kept: append([]string{}, existing...)}, nil
	}

	plan := ImagePlan{
		Kept:     []string{},
		ToUpload: []string{},
		ToDelete: []string{},
	}
	for i, entry := range requested {
		switch {
		case IsPersistedRef(entry):
			plan.Kept = append(plan.Kept, entry)
		case IsInlineImage(entry):
			plan.ToUpload = append(plan.ToUpload, entry)
		default:
			return ImagePlan{}, pkgerrors.New(pkgerrors.CodeValidation, "image must be a URL or a data:image URI").
				WithDetails(map[string]any{"field": "images", "index": i})
		}
	}

	keep := make(map[string]struct{}, len(plan.Kept))
	for _, u := range plan.Kept {
		keep[u] = struct{}{}
	}
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		if _, ok := keep[u]; ok {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		plan.ToDelete = append(plan.ToDelete, u)
	}

	return plan, nil
}

// Final is the list to persist once uploads have produced their URLs:
// kept references first, then new uploads in submission order.
func (p ImagePlan) Final(uploaded []string) []string {
	out := make([]string, 0, len(p.Kept)+len(uploaded))
	out = append(out, p.Kept...)
	return append(out, uploaded...)
}
