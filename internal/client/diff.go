package client

// DiffProject builds the minimal update payload between the project as loaded
// and the values a settings form submitted. Unchanged fields stay nil so the
// API only touches what the user edited. Returns ok=false when nothing
// changed, in which case no request should be made.
func DiffProject(current *Project, submitted UpdateProjectRequest) (UpdateProjectRequest, bool) {
	var out UpdateProjectRequest
	changed := false

	if submitted.Name != nil && *submitted.Name != current.Name {
		out.Name = submitted.Name
		changed = true
	}
	if submitted.Slug != nil && *submitted.Slug != current.Slug {
		out.Slug = submitted.Slug
		changed = true
	}
	if submitted.Summary != nil && !sameText(submitted.Summary, current.Summary) {
		out.Summary = submitted.Summary
		changed = true
	}
	if submitted.Description != nil && !sameText(submitted.Description, current.Description) {
		out.Description = submitted.Description
		changed = true
	}
	if submitted.IconURL != nil && !sameText(submitted.IconURL, current.IconURL) {
		out.IconURL = submitted.IconURL
		changed = true
	}

	return out, changed
}

// sameText treats nil and "" as the same value, matching how the API stores
// cleared optional fields.
func sameText(a, b *string) bool {
	av, bv := "", ""
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}
