package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/responses"
	"github.com/breadcrumbsapp/breadcrumbs-backend/api/validators"
	visitsvc "github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
)

type addVisitRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
	Rating       *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type attachImageRequest struct {
	URL     string     `json:"url" validate:"required,url"`
	TakenAt *time.Time `json:"taken_at,omitempty"`
	Rating  *int       `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// VisitCreate records a breadcrumb for the viewer at a restaurant.
func VisitCreate(svc visitsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "visit service unavailable"))
			return
		}

		viewerID, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addVisitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := uuid.Parse(body.RestaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant_id"))
			return
		}

		result, err := svc.AddVisit(r.Context(), viewerID, restaurantID, body.Rating)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// VisitAttachImage stores a photo against one of the viewer's breadcrumbs.
func VisitAttachImage(svc visitsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "visit service unavailable"))
			return
		}

		viewerID, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		visitID, err := pathUUID(r, "visitId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body attachImageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.AttachImage(r.Context(), viewerID, visitID, visitsvc.AttachImageInput{
			URL:     body.URL,
			TakenAt: body.TakenAt,
			Rating:  body.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

// VisitImages lists the photos attached to a breadcrumb.
func VisitImages(svc visitsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "visit service unavailable"))
			return
		}

		if _, err := viewerFromContext(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		visitID, err := pathUUID(r, "visitId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := svc.ImagesForVisit(r.Context(), visitID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"images": images})
	}
}
