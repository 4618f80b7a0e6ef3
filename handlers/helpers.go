package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const maxJSONBytes = 1_048_576

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxJSONBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxJSONBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readInput decodes and validates a request body, writing the error response itself.
// It reports whether the handler may continue.
func readInput(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := readJSON(w, r, dst); err != nil {
		badRequestResponse(w, r, err)
		return false
	}
	if fieldErrors := validateInput(dst); fieldErrors != nil {
		failedValidationResponse(w, r, fieldErrors)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// respond writes data and logs a failed write.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func unavailableResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusServiceUnavailable, message)
}

// mapServiceErrorToHTTP turns service errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrSportNotFound),
		errors.Is(err, services.ErrLeagueNotFound),
		errors.Is(err, services.ErrDivisionNotFound),
		errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrLocationNotFound),
		errors.Is(err, services.ErrSeasonNotFound),
		errors.Is(err, services.ErrRosterNotFound),
		errors.Is(err, services.ErrRegistrationNotFound),
		errors.Is(err, services.ErrRoleRecordNotFound),
		errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrPeriodNotFound),
		errors.Is(err, services.ErrPenaltyTypeNotFound),
		errors.Is(err, services.ErrChoiceNotFound),
		errors.Is(err, services.ErrSwitchNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrSportNameConflict),
		errors.Is(err, services.ErrLeagueNameConflict),
		errors.Is(err, services.ErrDivisionNameConflict),
		errors.Is(err, services.ErrOrganizationConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrLocationNameConflict),
		errors.Is(err, services.ErrSeasonConflict),
		errors.Is(err, services.ErrRosterNameConflict),
		errors.Is(err, services.ErrRosterDefaultConflict),
		errors.Is(err, services.ErrRegistrationConflict),
		errors.Is(err, services.ErrRoleRecordConflict),
		errors.Is(err, services.ErrJerseyNumberTaken),
		errors.Is(err, services.ErrPenaltyTypeConflict),
		errors.Is(err, services.ErrChoiceConflict),
		errors.Is(err, services.ErrSportInUse),
		errors.Is(err, services.ErrInUse):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrAuthInvalidCredentials),
		errors.Is(err, services.ErrAuthenticationFailed),
		errors.Is(err, services.ErrAuthInactiveUser):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrRoleRecordForeignUser):
		forbiddenResponse(w, r, err.Error())
	case errors.Is(err, services.ErrFeatureDisabled),
		errors.Is(err, services.ErrPlayerUpdateDisabled):
		forbiddenResponse(w, r, err.Error())

	case errors.Is(err, services.ErrStorageUnavailable):
		unavailableResponse(w, r, err.Error())

	case errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, services.ErrUploadContentType):
		errorResponse(w, r, http.StatusUnsupportedMediaType, err.Error())

	// Everything else a service rejects is a business-rule violation of the request.
	case isClientError(err):
		badRequestResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}

var clientErrors = []error{
	services.ErrValidationFailed,
	services.ErrPasswordTooShort,
	services.ErrInvalidEmail,
	services.ErrNameRequired,
	services.ErrInvalidGender,
	services.ErrInvalidWeight,
	services.ErrInvalidLanguage,
	services.ErrInvalidTimezone,
	services.ErrInvalidBirthday,
	services.ErrHeightRequired,
	services.ErrSportNameRequired,
	services.ErrLeagueNameRequired,
	services.ErrDivisionNameRequired,
	services.ErrOrganizationNameRequired,
	services.ErrTeamNameRequired,
	services.ErrLocationNameRequired,
	services.ErrSeasonDatesInvalid,
	services.ErrSeasonTeamNotLeague,
	services.ErrRosterNameRequired,
	services.ErrRosterNeedsGoalie,
	services.ErrRosterTeamNotInSeason,
	services.ErrRosterPlayerInvalid,
	services.ErrRoleNotRegistered,
	services.ErrLastRole,
	services.ErrRolesRequired,
	models.ErrUnknownRole,
	services.ErrInvalidPosition,
	services.ErrInvalidHandedness,
	services.ErrJerseyNumberInvalid,
	services.ErrGameSameTeams,
	services.ErrGameTimesInvalid,
	services.ErrGameTeamNotInSeason,
	services.ErrGameKindInvalid,
	services.ErrGameStatusInvalid,
	services.ErrGameTransition,
	services.ErrGameNotInProgress,
	services.ErrRosterNotSupported,
	services.ErrSideInvalid,
	services.ErrStartingGoalieMissing,
	services.ErrStartingGoalieInvalid,
	services.ErrGamePlayerInvalid,
	services.ErrPeriodNotInGame,
	services.ErrPenaltyTypeInvalid,
	services.ErrPenaltyTeamNotInGame,
	services.ErrPenaltyPlayerInvalid,
	services.ErrPenaltyTimeInvalid,
	services.ErrPenaltyGameClosed,
	services.ErrChoiceInvalid,
	services.ErrSwitchNameRequired,
	services.ErrUploadEmpty,
	services.ErrUploadHeader,
	services.ErrUploadRows,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// queryInt reads an optional positive integer query parameter. Missing means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("query parameter %s must be a positive integer", name)
	}
	return v, nil
}

// currentActor reads the authenticated user. On failure it writes a 401 and returns false.
func currentActor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return services.Actor{}, false
	}
	return actor, true
}

const maxUploadBytes = 32 << 20

// readUpload extracts a multipart file field. On failure it writes a 400 and returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (multipart.File, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get %s file from form: %w", field, err))
		return nil, "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		file.Close()
		badRequestResponse(w, r, fmt.Errorf("content-type header is required for %s", field))
		return nil, "", false
	}
	return file, contentType, true
}
