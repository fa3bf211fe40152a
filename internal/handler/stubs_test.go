package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
	"github.com/noah-isme/companies-api/internal/service"
)

type stubOrganizationService struct {
	list      []dto.OrganizationResponse
	single    *dto.OrganizationResponse
	err       error
	lastID    int64
	lastDepth *int
	lastQuery []string
}

func (s *stubOrganizationService) ByBuildingAddress(_ context.Context, city, street, house string) ([]dto.OrganizationResponse, error) {
	s.lastQuery = []string{city, street, house}
	return s.list, s.err
}

func (s *stubOrganizationService) ByActivity(_ context.Context, activity string) ([]dto.OrganizationResponse, error) {
	s.lastQuery = []string{activity}
	return s.list, s.err
}

func (s *stubOrganizationService) ByID(_ context.Context, id int64) (*dto.OrganizationResponse, error) {
	s.lastID = id
	return s.single, s.err
}

func (s *stubOrganizationService) ByName(_ context.Context, name string) (*dto.OrganizationResponse, error) {
	s.lastQuery = []string{name}
	return s.single, s.err
}

func (s *stubOrganizationService) BySubactivities(_ context.Context, activity string, maxDepth *int) ([]dto.OrganizationResponse, error) {
	s.lastQuery = []string{activity}
	s.lastDepth = maxDepth
	return s.list, s.err
}

type stubGeoSearchService struct {
	records []dto.BuildingWithOrganizations
	err     error
	calls   int
}

func (s *stubGeoSearchService) BuildingsWithOrganizations(context.Context, float64, float64, float64) ([]dto.BuildingWithOrganizations, error) {
	s.calls++
	return s.records, s.err
}

type stubActivityService struct {
	tree     []dto.ActivityResponse
	err      error
	lastName string
}

func (s *stubActivityService) Subactivities(_ context.Context, name string, _ *int) ([]dto.ActivityResponse, error) {
	s.lastName = name
	return s.tree, s.err
}

type stubAuthService struct {
	token    dto.TokenResponse
	user     dto.UserResponse
	err      error
	lastReq  dto.TokenRequest
	lastUser string
}

func (s *stubAuthService) IssueToken(_ context.Context, req dto.TokenRequest) (dto.TokenResponse, error) {
	s.lastReq = req
	return s.token, s.err
}

func (s *stubAuthService) CurrentUser(_ context.Context, username string) (dto.UserResponse, error) {
	s.lastUser = username
	return s.user, s.err
}

type stubSeedService struct {
	summary   dto.SeedSummary
	err       error
	lastToken string
	lastBody  []byte
}

func (s *stubSeedService) Import(_ context.Context, token string, document []byte) (dto.SeedSummary, error) {
	s.lastToken = token
	s.lastBody = document
	return s.summary, s.err
}

func (s *stubSeedService) ImportTrusted(_ context.Context, document []byte) (dto.SeedSummary, error) {
	s.lastBody = document
	return s.summary, s.err
}

type stubAuditService struct {
	entries    []models.AuditLog
	total      int64
	lastFilter repository.AuditLogFilter
}

func (s *stubAuditService) Record(context.Context, service.AuditEvent) {}

func (s *stubAuditService) Recent(_ context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error) {
	s.lastFilter = filter
	return s.entries, s.total, nil
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Details map[string]interface{} `json:"details"`
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
