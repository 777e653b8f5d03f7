package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chirag847/kisaaan/api/responses"
	"github.com/chirag847/kisaaan/api/validators"
	"github.com/chirag847/kisaaan/internal/grains"
	"github.com/chirag847/kisaaan/internal/media"
	"github.com/chirag847/kisaaan/pkg/config"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/chirag847/kisaaan/pkg/pagination"
)

const harvestDateLayout = "2006-01-02"

// GrainsList serves the public marketplace listing with filters and pagination.
func GrainsList(svc grains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r.URL.Query())
		result, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GrainsGet serves a single listing by id.
func GrainsGet(svc grains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grainID, err := parseIDParam(r, "grainId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), grainID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GrainsMine lists the authenticated farmer's own listings, sold and depleted included.
func GrainsMine(svc grains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListByFarmer(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"grains": result})
	}
}

// GrainsCreate accepts a multipart listing with one or more images.
func GrainsCreate(svc grains.Service, storage *media.Storage, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(uploads.MaxUploadBytes()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input, err := parseCreateGrainForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		files := r.MultipartForm.File["images"]
		if len(files) > uploads.MaxImages {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("at most %d images per listing", uploads.MaxImages)))
			return
		}

		saved := make([]string, 0, len(files))
		for _, header := range files {
			img, err := storage.SaveGrainImage(header)
			if err != nil {
				removeSavedImages(storage, saved)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			saved = append(saved, img.Path)
		}
		input.ImagePaths = saved

		result, err := svc.Create(r.Context(), uid, *input)
		if err != nil {
			removeSavedImages(storage, saved)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GrainsUpdate mutates a listing owned by the caller.
func GrainsUpdate(svc grains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grainID, err := parseIDParam(r, "grainId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body grains.UpdateGrainRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), uid, grainID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GrainsDelete removes a listing owned by the caller, images included.
func GrainsDelete(svc grains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grainID, err := parseIDParam(r, "grainId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), uid, grainID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseCreateGrainForm(r *http.Request) (*grains.CreateGrainInput, error) {
	grainType, err := enums.ParseGrainType(r.FormValue("grain_type"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grain_type")
	}
	quality, err := enums.ParseGrainQuality(r.FormValue("quality"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quality")
	}
	quantity, err := decimal.NewFromString(r.FormValue("quantity"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quantity")
	}
	price, err := decimal.NewFromString(r.FormValue("price_per_quintal"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_per_quintal")
	}
	harvestDate, err := time.Parse(harvestDateLayout, r.FormValue("harvest_date"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "harvest_date must be YYYY-MM-DD")
	}

	input := &grains.CreateGrainInput{
		GrainType:       grainType,
		Quantity:        quantity,
		PricePerQuintal: price,
		Quality:         quality,
		Description:     validators.SanitizeString(r.FormValue("description"), 2000),
		Location:        validators.SanitizeString(r.FormValue("location"), 200),
		HarvestDate:     harvestDate,
	}
	if input.Location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}

	if raw := strings.TrimSpace(r.FormValue("moisture_percent")); raw != "" {
		moisture, err := strconv.ParseFloat(raw, 64)
		if err != nil || moisture < 0 || moisture > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "moisture_percent must be between 0 and 100")
		}
		input.MoisturePercent = &moisture
	}
	if raw := strings.TrimSpace(r.FormValue("organic")); raw != "" {
		organic, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "organic must be a boolean")
		}
		input.Organic = organic
	}
	return input, nil
}

func parseListFilters(r *http.Request) (grains.ListFilters, error) {
	query := r.URL.Query()
	filters := grains.ListFilters{
		Location: validators.SanitizeString(query.Get("location"), 200),
	}

	if raw := query.Get("grain_type"); raw != "" {
		grainType, err := enums.ParseGrainType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grain_type filter")
		}
		filters.GrainType = &grainType
	}
	if raw := query.Get("quality"); raw != "" {
		quality, err := enums.ParseGrainQuality(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quality filter")
		}
		filters.Quality = &quality
	}
	if raw := query.Get("min_price"); raw != "" {
		minPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid min_price filter")
		}
		filters.MinPrice = &minPrice
	}
	if raw := query.Get("max_price"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid max_price filter")
		}
		filters.MaxPrice = &maxPrice
	}
	if organic, ok := validators.ParseQueryBool(r, "organic"); ok {
		filters.OrganicOnly = organic
	}
	return filters, nil
}

func removeSavedImages(storage *media.Storage, paths []string) {
	for _, path := range paths {
		_ = storage.RemoveByPublicPath(path)
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
