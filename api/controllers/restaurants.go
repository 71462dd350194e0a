package controllers

import (
	"net/http"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/responses"
	"github.com/breadcrumbsapp/breadcrumbs-backend/api/validators"
	restaurantsvc "github.com/breadcrumbsapp/breadcrumbs-backend/internal/restaurants"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
)

// RestaurantList returns every restaurant, alphabetical by name.
func RestaurantList(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"restaurants": rows})
	}
}

// RestaurantSearch finds restaurants by name.
func RestaurantSearch(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		query, err := validators.ParseQuerySearch(r, "q", searchQueryMaxLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Search(r.Context(), query, defaultSearchLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"restaurants": rows})
	}
}

// RestaurantDetail returns the restaurant page payload including which of
// the viewer's friends have left a breadcrumb there.
func RestaurantDetail(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		viewerID, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := pathUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), viewerID, restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
