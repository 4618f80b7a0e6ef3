package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/google/uuid"
)

var (
	ErrUploadContentType = errors.New("upload must be a CSV file")
	ErrUploadEmpty       = errors.New("upload contains no rows")
	ErrUploadHeader      = errors.New("upload header is missing a required column")
	ErrUploadRows        = errors.New("upload contains invalid rows")
)

// allowedCSVTypes are the MIME types browsers send for CSV files.
var allowedCSVTypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
}

type BulkUploadService interface {
	// UploadTeams creates one team per row inside a single transaction. Divisions
	// are looked up by name within leagueID.
	UploadTeams(ctx context.Context, leagueID int, contentType string, r io.Reader) (*BulkUploadResult, error)
	UploadLocations(ctx context.Context, contentType string, r io.Reader) (*BulkUploadResult, error)
}

// RowError reports a rejected row. Row numbers count the header as row 1.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type BulkUploadResult struct {
	UploadID string     `json:"upload_id"`
	Created  int        `json:"created"`
	Errors   []RowError `json:"errors,omitempty"`
}

type bulkUploadService struct {
	teamRepo     repositories.TeamRepository
	leagueRepo   repositories.LeagueRepository
	locationRepo repositories.LocationRepository
	switches     SwitchService
	tx           repositories.Transactor
	logger       *slog.Logger
}

func NewBulkUploadService(
	teamRepo repositories.TeamRepository,
	leagueRepo repositories.LeagueRepository,
	locationRepo repositories.LocationRepository,
	switches SwitchService,
	tx repositories.Transactor,
	logger *slog.Logger,
) BulkUploadService {
	return &bulkUploadService{
		teamRepo:     teamRepo,
		leagueRepo:   leagueRepo,
		locationRepo: locationRepo,
		switches:     switches,
		tx:           tx,
		logger:       logger,
	}
}

// CheckCSVContentType accepts the MIME types browsers use for CSV uploads.
func CheckCSVContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !allowedCSVTypes[strings.ToLower(mediaType)] {
		return fmt.Errorf("%w: got %q", ErrUploadContentType, contentType)
	}
	return nil
}

type csvRow struct {
	line   int
	values map[string]string
}

// readCSV returns header-keyed rows. Header names are matched case-insensitively.
func readCSV(r io.Reader, required ...string) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrUploadEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	for _, name := range required {
		if !containsString(columns, name) {
			return nil, fmt.Errorf("%w: %s", ErrUploadHeader, name)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		line, _ := reader.FieldPos(0)
		values := make(map[string]string, len(columns))
		blank := true
		for i, col := range columns {
			if i < len(record) {
				values[col] = strings.TrimSpace(record[i])
				if values[col] != "" {
					blank = false
				}
			}
		}
		if !blank {
			rows = append(rows, csvRow{line: line, values: values})
		}
	}
	if len(rows) == 0 {
		return nil, ErrUploadEmpty
	}
	return rows, nil
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func parseOptionalBool(value string, fallback bool) (bool, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func (s *bulkUploadService) UploadTeams(ctx context.Context, leagueID int, contentType string, r io.Reader) (*BulkUploadResult, error) {
	if !s.switches.IsActive(ctx, models.SwitchBulkUploadTeams) {
		return nil, ErrFeatureDisabled
	}
	if err := CheckCSVContentType(contentType); err != nil {
		return nil, err
	}
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, mapLeagueError(err)
	}
	rows, err := readCSV(r, "name", "division")
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{UploadID: uuid.NewString()}
	divisions := make(map[string]int)
	teams := make([]*models.Team, 0, len(rows))
	for _, row := range rows {
		team, err := s.teamFromRow(ctx, leagueID, row, divisions)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row.line, Message: err.Error()})
			continue
		}
		teams = append(teams, team)
	}
	if len(result.Errors) > 0 {
		return result, ErrUploadRows
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for i, team := range teams {
			if err := s.teamRepo.Create(ctx, exec, team); err != nil {
				return fmt.Errorf("row %d: %w", rows[i].line, mapTeamError(err))
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "team upload rejected", slog.String("upload_id", result.UploadID), slog.Any("error", err))
		return result, err
	}

	result.Created = len(teams)
	s.logger.InfoContext(ctx, "teams uploaded",
		slog.String("upload_id", result.UploadID),
		slog.Int("league_id", leagueID),
		slog.Int("created", result.Created))
	return result, nil
}

func (s *bulkUploadService) teamFromRow(ctx context.Context, leagueID int, row csvRow, divisions map[string]int) (*models.Team, error) {
	divisionName := row.values["division"]
	key := strings.ToLower(divisionName)
	divisionID, ok := divisions[key]
	if !ok {
		division, err := s.leagueRepo.FindDivisionByName(ctx, leagueID, divisionName)
		if err != nil {
			if errors.Is(err, repositories.ErrDivisionNotFound) {
				return nil, fmt.Errorf("division %q not found in league", divisionName)
			}
			return nil, err
		}
		divisionID = division.ID
		divisions[key] = divisionID
	}

	input := TeamInput{
		Name:       row.values["name"],
		Website:    row.values["website"],
		DivisionID: divisionID,
	}
	if v := row.values["organization_id"]; v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("organization_id %q is not a valid id", v)
		}
		input.OrganizationID = &id
	}
	active, err := parseOptionalBool(row.values["is_active"], true)
	if err != nil {
		return nil, fmt.Errorf("is_active %q is not a boolean", row.values["is_active"])
	}
	input.IsActive = &active
	return buildTeam(input)
}

func (s *bulkUploadService) UploadLocations(ctx context.Context, contentType string, r io.Reader) (*BulkUploadResult, error) {
	if err := CheckCSVContentType(contentType); err != nil {
		return nil, err
	}
	rows, err := readCSV(r, "name")
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{UploadID: uuid.NewString()}
	locations := make([]*models.Location, 0, len(rows))
	for _, row := range rows {
		location, err := buildLocation(LocationInput{
			Name:            row.values["name"],
			StreetNumber:    row.values["street_number"],
			Street:          row.values["street"],
			City:            row.values["city"],
			Region:          row.values["region"],
			PostalCode:      row.values["postal_code"],
			PhoneNumber:     row.values["phone_number"],
			Website:         row.values["website"],
			GoogleEmbedCode: row.values["google_embed_code"],
		})
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row.line, Message: err.Error()})
			continue
		}
		locations = append(locations, location)
	}
	if len(result.Errors) > 0 {
		return result, ErrUploadRows
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for i, location := range locations {
			if err := s.locationRepo.Create(ctx, exec, location); err != nil {
				return fmt.Errorf("row %d: %w", rows[i].line, mapLocationError(err))
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "location upload rejected", slog.String("upload_id", result.UploadID), slog.Any("error", err))
		return result, err
	}

	result.Created = len(locations)
	s.logger.InfoContext(ctx, "locations uploaded",
		slog.String("upload_id", result.UploadID),
		slog.Int("created", result.Created))
	return result, nil
}
