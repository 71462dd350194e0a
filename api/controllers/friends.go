package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/responses"
	"github.com/breadcrumbsapp/breadcrumbs-backend/api/validators"
	connectionsvc "github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	usersvc "github.com/breadcrumbsapp/breadcrumbs-backend/internal/users"
	pkgerrors "github.com/breadcrumbsapp/breadcrumbs-backend/pkg/errors"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
)

type addFriendRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// FriendAdd files a friend request from the viewer to another member.
func FriendAdd(svc connectionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection service unavailable"))
			return
		}

		viewerID, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addFriendRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := uuid.Parse(body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id"))
			return
		}

		result, err := svc.AddFriend(r.Context(), viewerID, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// FriendsOverview returns the viewer's friends plus open requests in both
// directions.
func FriendsOverview(svc connectionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection service unavailable"))
			return
		}

		viewerID, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.Overview(r.Context(), viewerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, overview)
	}
}

// FriendSearch finds members by name for the friends page search box.
func FriendSearch(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
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

		responses.WriteSuccess(w, map[string]any{"users": rows})
	}
}
