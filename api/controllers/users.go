package controllers

import (
	"net/http"

	"github.com/chirag847/kisaaan/api/responses"
	"github.com/chirag847/kisaaan/internal/users"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/chirag847/kisaaan/pkg/pagination"
)

// UsersPublicProfile serves the credential-free profile of any user.
func UsersPublicProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.PublicProfileByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// UsersListFarmers serves the paginated farmer directory.
func UsersListFarmers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := pagination.FromQuery(r.URL.Query())

		directory, err := svc.ListFarmers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, directory)
	}
}
