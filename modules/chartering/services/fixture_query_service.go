package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/mappers"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/viewmodels"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/metrics"
)

type FixtureQueryService struct {
	repo fixture.Repository
}

func NewFixtureQueryService(repo fixture.Repository) *FixtureQueryService {
	return &FixtureQueryService{repo: repo}
}

// RowPage is one fetched page already flattened into grid rows.
type RowPage struct {
	Rows                 []viewmodels.FixtureRow
	NextCursor           *string
	TotalCount           int64
	UnfilteredTotalCount int64
}

func (s *FixtureQueryService) GetPaginated(ctx context.Context, params *fixture.FindParams) (*fixture.Page, error) {
	start := time.Now()
	page, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	metrics.GridQueryDuration.WithLabelValues(string(params.Unit)).Observe(time.Since(start).Seconds())
	return page, nil
}

// Query executes the view-state engine's derived request and transforms the
// result into rows.
func (s *FixtureQueryService) Query(ctx context.Context, organizationID uuid.UUID, req gridstate.QueryRequest) (*RowPage, error) {
	page, err := s.GetPaginated(ctx, FindParamsFromRequest(organizationID, req))
	if err != nil {
		return nil, err
	}
	return &RowPage{
		Rows:                 mappers.FixtureRows(page.Items),
		NextCursor:           page.NextCursor,
		TotalCount:           page.TotalCount,
		UnfilteredTotalCount: page.UnfilteredTotalCount,
	}, nil
}

func (s *FixtureQueryService) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*fixture.Fixture, error) {
	return s.repo.GetByID(ctx, organizationID, id)
}

// FindParamsFromRequest lowers the engine's query shape onto repository
// parameters.
func FindParamsFromRequest(organizationID uuid.UUID, req gridstate.QueryRequest) *fixture.FindParams {
	return &fixture.FindParams{
		OrganizationID: organizationID,
		Unit:           req.Unit,
		Cursor:         req.Cursor,
		Limit:          req.Limit,
		Status:         req.Filters.Status,
		VesselNames:    req.Filters.VesselNames,
		OwnerNames:     req.Filters.OwnerNames,
		ChartererNames: req.Filters.ChartererNames,
		DateRangeStart: req.Filters.DateRangeStart,
		DateRangeEnd:   req.Filters.DateRangeEnd,
		Multiselect:    req.Filters.Multiselect,
		DateRanges:     req.Filters.DateRanges,
		NumberRanges:   req.Filters.NumberRanges,
		SearchTerms:    req.SearchTerms,
		SortField:      req.SortField,
		SortDesc:       req.SortDesc,
	}
}
