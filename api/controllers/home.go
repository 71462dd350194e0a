package controllers

import (
	"net/http"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/responses"
)

const banner = "The ultimate social media network for foodies"

// Home serves the landing banner.
func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"banner": banner})
	}
}
