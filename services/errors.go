package services

import "errors"

// Errors shared by several services and by the HTTP error mapping.
var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrFeatureDisabled    = errors.New("feature is disabled")
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrUnsupportedImage   = errors.New("unsupported image content type")

	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	ErrUserNotFound         = errors.New("user not found")
	ErrLeagueNotFound       = errors.New("league not found")
	ErrDivisionNotFound     = errors.New("division not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrLocationNotFound     = errors.New("location not found")
	ErrSeasonNotFound       = errors.New("season not found")
	ErrRosterNotFound       = errors.New("season roster not found")
	ErrRegistrationNotFound = errors.New("sport registration not found")
	ErrRoleRecordNotFound   = errors.New("role record not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrPeriodNotFound       = errors.New("period not found")
	ErrPenaltyTypeNotFound  = errors.New("penalty type not found")
	ErrChoiceNotFound       = errors.New("choice not found")
	ErrSwitchNotFound       = errors.New("feature switch not found")

	ErrUserEmailConflict     = errors.New("email address is already in use")
	ErrLeagueNameConflict    = errors.New("league name already exists for this sport")
	ErrDivisionNameConflict  = errors.New("division name already exists in this league")
	ErrOrganizationConflict  = errors.New("organization name already exists for this sport")
	ErrTeamNameConflict      = errors.New("team name already exists in this division")
	ErrLocationNameConflict  = errors.New("location name already exists")
	ErrSeasonConflict        = errors.New("season with the same league and dates already exists")
	ErrRosterNameConflict    = errors.New("season roster name already used for this team and season")
	ErrRosterDefaultConflict = errors.New("team already has a default roster for this season")
	ErrRegistrationConflict  = errors.New("already registered for this sport")
	ErrRoleRecordConflict    = errors.New("role record already exists")
	ErrJerseyNumberTaken     = errors.New("jersey number is already taken on this team")
	ErrPenaltyTypeConflict   = errors.New("penalty type code already exists for this sport")
	ErrChoiceConflict        = errors.New("choice already exists for this content type")
	ErrInUse                 = errors.New("resource is referenced and cannot be deleted")
)
