package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/entities/bookmark"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/httpapi"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			_ = httpapi.WriteValidationError(w, fields)
			return false
		}
		_ = httpapi.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return false
	}
	return true
}

// writeServiceError maps domain errors onto the API error envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, composables.ErrNoUser), errors.Is(err, composables.ErrNoOrganization):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "caller identity missing", nil)
	case errors.Is(err, bookmark.ErrNotFound), errors.Is(err, gridstate.ErrBookmarkNotFound):
		_ = httpapi.WriteNotFound(w, "bookmark not found")
	case errors.Is(err, bookmark.ErrNameTaken):
		_ = httpapi.WriteError(w, http.StatusConflict, "BOOKMARK_NAME_TAKEN", "a bookmark with this name already exists", nil)
	case errors.Is(err, gridstate.ErrBookmarkImmutable):
		_ = httpapi.WriteError(w, http.StatusForbidden, "BOOKMARK_IMMUTABLE", "system bookmarks cannot be modified", nil)
	case errors.Is(err, fixture.ErrNotFound):
		_ = httpapi.WriteNotFound(w, "fixture not found")
	case errors.Is(err, persistence.ErrBadCursor):
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_CURSOR", "malformed pagination cursor", nil)
	case errors.Is(err, services.ErrUnsupportedFormat):
		_ = httpapi.WriteError(w, http.StatusNotImplemented, "EXPORT_FORMAT_UNSUPPORTED", "requested export format is not available", nil)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteInternalError(w)
	}
}
