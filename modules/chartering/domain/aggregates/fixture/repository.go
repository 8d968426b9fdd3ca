package fixture

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
)

var ErrNotFound = errors.New("fixture not found")

// FindParams mirrors the remote paginated fixture query. Cursor is opaque to
// callers; the repository encodes and decodes it.
type FindParams struct {
	OrganizationID uuid.UUID
	Unit           gridstate.PaginationUnit
	Cursor         *string
	Limit          int

	Status         []string
	VesselNames    []string
	OwnerNames     []string
	ChartererNames []string
	DateRangeStart *time.Time
	DateRangeEnd   *time.Time

	Multiselect  map[string][]string
	DateRanges   map[string]gridstate.DateSpan
	NumberRanges map[string]gridstate.NumberSpan

	SearchTerms []string
	SortField   string
	SortDesc    bool
}

// Page is one page of resolved fixtures plus the cursors and totals the
// grid needs.
type Page struct {
	Items                []Fixture
	NextCursor           *string
	TotalCount           int64
	UnfilteredTotalCount int64
}

// Counts are the per-unit unfiltered totals behind system-bookmark badges.
type Counts struct {
	Fixtures     int64
	Negotiations int64
	Contracts    int64
}

// FacetOptions are the distinct selectable values per filter facet,
// computed from the unfiltered set.
type FacetOptions struct {
	Statuses       []string
	VesselNames    []string
	OwnerNames     []string
	ChartererNames []string
	CargoTypes     []string
	LoadPorts      []string
	DischargePorts []string
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) (*Page, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Fixture, error)
	Counts(ctx context.Context, organizationID uuid.UUID) (Counts, error)
	Facets(ctx context.Context, organizationID uuid.UUID) (FacetOptions, error)
}
