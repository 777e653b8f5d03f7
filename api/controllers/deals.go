package controllers

import (
	"net/http"

	"github.com/chirag847/kisaaan/api/middleware"
	"github.com/chirag847/kisaaan/api/responses"
	"github.com/chirag847/kisaaan/api/validators"
	"github.com/chirag847/kisaaan/internal/deals"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
)

// DealsCreate opens a negotiation on a listing. The caller becomes the buyer.
func DealsCreate(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body deals.CreateDealRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), uid, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// DealsMine lists deals where the caller is either party.
func DealsMine(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForUser(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deals": result})
	}
}

// DealsGet serves a single deal to its parties or an admin.
func DealsGet(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealID, err := parseIDParam(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), actor, dealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DealsSetStatus moves a deal along its lifecycle.
func DealsSetStatus(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealID, err := parseIDParam(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body deals.SetStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseDealStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		result, err := svc.SetStatus(r.Context(), actor, dealID, deals.SetStatusInput{
			Status:       status,
			DeliveryDate: body.DeliveryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func requireActor(r *http.Request) (deals.Actor, error) {
	uid, err := requireUserID(r)
	if err != nil {
		return deals.Actor{}, err
	}
	return deals.Actor{
		UserID:  uid,
		IsAdmin: middleware.IsAdminFromContext(r.Context()),
	}, nil
}
