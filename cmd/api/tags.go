package main

import "net/http"

func (app *application) listTags(w http.ResponseWriter, r *http.Request) {
	names, err := app.core.GetAllTagNames(r.Context())
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if names == nil {
		names = []string{}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"tags": names}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
