package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence/models"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/repo"
)

const (
	selectFixtureFields = `id, organization_id, order_reference, stage, created_at, updated_at`

	selectNegotiationsQuery = `
		SELECT id, fixture_id, status, vessel_name, owner_name, charterer_name, cargo_type,
		       laycan_from, laycan_to, indicative_freight_rates, indicative_demurrage_rates,
		       agreed_freight_rate, agreed_demurrage_rate, market_index_rate, created_at, updated_at
		FROM negotiations
		WHERE fixture_id = ANY($1)
		ORDER BY created_at, id`

	selectContractsQuery = `
		SELECT id, fixture_id, negotiation_id, kind, status, vessel_name, owner_name, charterer_name,
		       cargo_type, cargo_quantity_mt, load_port, discharge_port, laycan_from, laycan_to,
		       freight_rate, demurrage_rate, despatch_rate, address_commission_pct, broker_commission_pct,
		       approval_status, signature_status, created_at, working_copy_at, final_at, fully_signed_at, updated_at
		FROM contracts
		WHERE fixture_id = ANY($1)
		ORDER BY created_at, id`
)

// unitSource describes how one pagination unit maps onto tables. The paged
// entity is always aliased t.
type unitSource struct {
	from         string
	orgColumn    string
	statusColumn string
	fixtureID    string
	// direct name columns; empty means the unit needs EXISTS subqueries
	vesselColumn string
	ownerColumn  string
	chartererCol string
	// whitelisted generic filter buckets, filter id to SQL expression
	columns map[string]string
}

func sourceFor(unit gridstate.PaginationUnit) unitSource {
	switch unit {
	case gridstate.UnitNegotiation:
		return unitSource{
			from:         "negotiations t JOIN fixtures f ON f.id = t.fixture_id",
			orgColumn:    "f.organization_id",
			statusColumn: "t.status",
			fixtureID:    "t.fixture_id",
			vesselColumn: "t.vessel_name",
			ownerColumn:  "t.owner_name",
			chartererCol: "t.charterer_name",
			columns: map[string]string{
				"cargoType":       "t.cargo_type",
				"laycan":          "t.laycan_from",
				"freightRate":     "t.agreed_freight_rate",
				"demurrageRate":   "t.agreed_demurrage_rate",
				"marketIndexRate": "t.market_index_rate",
			},
		}
	case gridstate.UnitContract:
		return unitSource{
			from:         "contracts t JOIN fixtures f ON f.id = t.fixture_id",
			orgColumn:    "f.organization_id",
			statusColumn: "t.status",
			fixtureID:    "t.fixture_id",
			vesselColumn: "t.vessel_name",
			ownerColumn:  "t.owner_name",
			chartererCol: "t.charterer_name",
			columns: map[string]string{
				"cargoType":     "t.cargo_type",
				"cargoQuantity": "t.cargo_quantity_mt",
				"loadPort":      "t.load_port",
				"dischargePort": "t.discharge_port",
				"laycan":        "t.laycan_from",
				"freightRate":   "t.freight_rate",
				"demurrageRate": "t.demurrage_rate",
			},
		}
	default:
		return unitSource{
			from:         "fixtures t",
			orgColumn:    "t.organization_id",
			statusColumn: "t.stage",
			fixtureID:    "t.id",
			columns:      map[string]string{},
		}
	}
}

// argList numbers positional arguments as conditions are appended.
type argList struct {
	args []interface{}
}

func (a *argList) add(v interface{}) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

type FixtureRepository struct{}

func NewFixtureRepository() fixture.Repository {
	return &FixtureRepository{}
}

func (r *FixtureRepository) GetPaginated(ctx context.Context, params *fixture.FindParams) (*fixture.Page, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	src := sourceFor(params.Unit)

	var scope argList
	scopeConds := []string{src.orgColumn + " = " + scope.add(params.OrganizationID)}
	filterConds, err := buildFilterConditions(params, src, &scope)
	if err != nil {
		return nil, err
	}
	conds := append(append([]string(nil), scopeConds...), filterConds...)

	dir := "DESC"
	cmp := "<"
	if sortAscending(params) {
		dir = "ASC"
		cmp = ">"
	}

	pageConds := append([]string(nil), conds...)
	if params.Cursor != nil && *params.Cursor != "" {
		cur, err := decodeCursor(*params.Cursor)
		if err != nil {
			return nil, err
		}
		pageConds = append(pageConds, fmt.Sprintf(
			"(t.created_at, t.id) %s (%s, %s)",
			cmp, scope.add(cur.CreatedAt()), scope.add(cur.ID),
		))
	}

	query := repo.Join(
		"SELECT t.id, t.created_at, "+src.fixtureID,
		"FROM "+src.from,
		repo.JoinWhere(pageConds...),
		fmt.Sprintf("ORDER BY t.created_at %s, t.id %s", dir, dir),
		fmt.Sprintf("LIMIT %d", limit+1),
	)

	rows, err := tx.Query(ctx, query, scope.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type unitRow struct {
		id        uuid.UUID
		createdAt time.Time
		fixtureID uuid.UUID
	}
	var unitRows []unitRow
	for rows.Next() {
		var u unitRow
		if err := rows.Scan(&u.id, &u.createdAt, &u.fixtureID); err != nil {
			return nil, err
		}
		unitRows = append(unitRows, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var nextCursor *string
	if len(unitRows) > limit {
		unitRows = unitRows[:limit]
		last := unitRows[len(unitRows)-1]
		c := encodeCursor(last.createdAt, last.id)
		nextCursor = &c
	}

	fixtureIDs := make([]uuid.UUID, 0, len(unitRows))
	seen := make(map[uuid.UUID]struct{}, len(unitRows))
	for _, u := range unitRows {
		if _, ok := seen[u.fixtureID]; ok {
			continue
		}
		seen[u.fixtureID] = struct{}{}
		fixtureIDs = append(fixtureIDs, u.fixtureID)
	}

	items, err := r.loadFixtures(ctx, fixtureIDs)
	if err != nil {
		return nil, err
	}

	total, err := r.countWhere(ctx, src, conds, scope.args)
	if err != nil {
		return nil, err
	}
	var unfilteredScope argList
	unfilteredConds := []string{src.orgColumn + " = " + unfilteredScope.add(params.OrganizationID)}
	unfiltered, err := r.countWhere(ctx, src, unfilteredConds, unfilteredScope.args)
	if err != nil {
		return nil, err
	}

	return &fixture.Page{
		Items:                items,
		NextCursor:           nextCursor,
		TotalCount:           total,
		UnfilteredTotalCount: unfiltered,
	}, nil
}

// Keyset pagination is anchored on (created_at, id); other sort fields fall
// back to created_at DESC so cursors stay valid.
func sortAscending(params *fixture.FindParams) bool {
	if params.SortField == "createdDate" {
		return !params.SortDesc
	}
	return false
}

func buildFilterConditions(params *fixture.FindParams, src unitSource, scope *argList) ([]string, error) {
	var conds []string

	if len(params.Status) > 0 {
		conds = append(conds, src.statusColumn+" = ANY("+scope.add(params.Status)+")")
	}

	nameCond := func(direct, negCol, conCol string, values []string) string {
		if len(values) == 0 {
			return ""
		}
		p := scope.add(values)
		if direct != "" {
			return direct + " = ANY(" + p + ")"
		}
		return "(EXISTS (SELECT 1 FROM negotiations n WHERE n.fixture_id = t.id AND n." + negCol + " = ANY(" + p + "))" +
			" OR EXISTS (SELECT 1 FROM contracts c WHERE c.fixture_id = t.id AND c." + conCol + " = ANY(" + p + ")))"
	}
	if c := nameCond(src.vesselColumn, "vessel_name", "vessel_name", params.VesselNames); c != "" {
		conds = append(conds, c)
	}
	if c := nameCond(src.ownerColumn, "owner_name", "owner_name", params.OwnerNames); c != "" {
		conds = append(conds, c)
	}
	if c := nameCond(src.chartererCol, "charterer_name", "charterer_name", params.ChartererNames); c != "" {
		conds = append(conds, c)
	}

	if params.DateRangeStart != nil {
		conds = append(conds, "t.created_at >= "+scope.add(*params.DateRangeStart))
	}
	if params.DateRangeEnd != nil {
		conds = append(conds, "t.created_at <= "+scope.add(*params.DateRangeEnd))
	}

	for id, values := range params.Multiselect {
		expr, ok := src.columns[id]
		if !ok || len(values) == 0 {
			continue
		}
		conds = append(conds, expr+" = ANY("+scope.add(values)+")")
	}
	for id, span := range params.DateRanges {
		expr, ok := src.columns[id]
		if !ok {
			continue
		}
		conds = append(conds, expr+" >= "+scope.add(span.From), expr+" <= "+scope.add(span.To))
	}
	for id, span := range params.NumberRanges {
		expr, ok := src.columns[id]
		if !ok {
			continue
		}
		conds = append(conds, expr+" >= "+scope.add(span.Min), expr+" <= "+scope.add(span.Max))
	}

	if c := searchCondition(params, src, scope); c != "" {
		conds = append(conds, c)
	}
	return conds, nil
}

// Every search term must match somewhere; within a term the match may land
// on any of the visible name columns.
func searchCondition(params *fixture.FindParams, src unitSource, scope *argList) string {
	if len(params.SearchTerms) == 0 {
		return ""
	}
	var perTerm []string
	for _, term := range params.SearchTerms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		p := scope.add("%" + term + "%")
		if src.vesselColumn != "" {
			perTerm = append(perTerm, fmt.Sprintf(
				"(%s ILIKE %s OR %s ILIKE %s OR %s ILIKE %s OR f.order_reference ILIKE %s)",
				src.vesselColumn, p, src.ownerColumn, p, src.chartererCol, p, p,
			))
			continue
		}
		perTerm = append(perTerm, fmt.Sprintf(
			"(t.order_reference ILIKE %s"+
				" OR EXISTS (SELECT 1 FROM negotiations n WHERE n.fixture_id = t.id AND (n.vessel_name ILIKE %s OR n.owner_name ILIKE %s OR n.charterer_name ILIKE %s))"+
				" OR EXISTS (SELECT 1 FROM contracts c WHERE c.fixture_id = t.id AND (c.vessel_name ILIKE %s OR c.owner_name ILIKE %s OR c.charterer_name ILIKE %s)))",
			p, p, p, p, p, p, p,
		))
	}
	if len(perTerm) == 0 {
		return ""
	}
	return "(" + strings.Join(perTerm, " AND ") + ")"
}

func (r *FixtureRepository) countWhere(ctx context.Context, src unitSource, conds []string, args []interface{}) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	query := repo.Join("SELECT COUNT(*) FROM "+src.from, repo.JoinWhere(conds...))
	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FixtureRepository) loadFixtures(ctx context.Context, ids []uuid.UUID) ([]fixture.Fixture, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + selectFixtureFields + " FROM fixtures WHERE id = ANY($1)"
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*fixture.Fixture, len(ids))
	for rows.Next() {
		var row models.Fixture
		if err := rows.Scan(&row.ID, &row.OrganizationID, &row.OrderReference, &row.Stage, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		f, err := toDomainFixture(&row)
		if err != nil {
			return nil, err
		}
		byID[f.ID] = &f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachNegotiations(ctx, tx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.attachContracts(ctx, tx, ids, byID); err != nil {
		return nil, err
	}

	// Preserve the paginated ordering.
	out := make([]fixture.Fixture, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *FixtureRepository) attachNegotiations(ctx context.Context, tx repo.Tx, ids []uuid.UUID, byID map[uuid.UUID]*fixture.Fixture) error {
	rows, err := tx.Query(ctx, selectNegotiationsQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row models.Negotiation
		if err := rows.Scan(
			&row.ID, &row.FixtureID, &row.Status, &row.VesselName, &row.OwnerName,
			&row.ChartererName, &row.CargoType, &row.LaycanFrom, &row.LaycanTo,
			&row.IndicativeFreightRates, &row.IndicativeDemurrageRates,
			&row.AgreedFreightRate, &row.AgreedDemurrageRate, &row.MarketIndexRate,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return err
		}
		n, err := toDomainNegotiation(&row)
		if err != nil {
			return err
		}
		if f, ok := byID[n.FixtureID]; ok {
			f.Negotiations = append(f.Negotiations, n)
		}
	}
	return rows.Err()
}

func (r *FixtureRepository) attachContracts(ctx context.Context, tx repo.Tx, ids []uuid.UUID, byID map[uuid.UUID]*fixture.Fixture) error {
	rows, err := tx.Query(ctx, selectContractsQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row models.Contract
		if err := rows.Scan(
			&row.ID, &row.FixtureID, &row.NegotiationID, &row.Kind, &row.Status,
			&row.VesselName, &row.OwnerName, &row.ChartererName, &row.CargoType,
			&row.CargoQuantityMT, &row.LoadPort, &row.DischargePort,
			&row.LaycanFrom, &row.LaycanTo, &row.FreightRate, &row.DemurrageRate,
			&row.DespatchRate, &row.AddressCommissionPct, &row.BrokerCommissionPct,
			&row.ApprovalStatus, &row.SignatureStatus, &row.CreatedAt,
			&row.WorkingCopyAt, &row.FinalAt, &row.FullySignedAt, &row.UpdatedAt,
		); err != nil {
			return err
		}
		c, err := toDomainContract(&row)
		if err != nil {
			return err
		}
		f, ok := byID[c.FixtureID]
		if !ok {
			continue
		}
		if row.Kind == models.ContractKindRecap {
			f.RecapManagers = append(f.RecapManagers, fixture.RecapManager{Contract: c})
		} else {
			f.Contracts = append(f.Contracts, c)
		}
	}
	return rows.Err()
}

func (r *FixtureRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*fixture.Fixture, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var row models.Fixture
	err = tx.QueryRow(ctx,
		"SELECT "+selectFixtureFields+" FROM fixtures WHERE organization_id = $1 AND id = $2",
		organizationID, id,
	).Scan(&row.ID, &row.OrganizationID, &row.OrderReference, &row.Stage, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, fixture.ErrNotFound
		}
		return nil, err
	}

	f, err := toDomainFixture(&row)
	if err != nil {
		return nil, err
	}
	byID := map[uuid.UUID]*fixture.Fixture{f.ID: &f}
	ids := []uuid.UUID{f.ID}
	if err := r.attachNegotiations(ctx, tx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.attachContracts(ctx, tx, ids, byID); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FixtureRepository) Counts(ctx context.Context, organizationID uuid.UUID) (fixture.Counts, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return fixture.Counts{}, err
	}

	var counts fixture.Counts
	err = tx.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM fixtures WHERE organization_id = $1),
			(SELECT COUNT(*) FROM negotiations n JOIN fixtures f ON f.id = n.fixture_id WHERE f.organization_id = $1),
			(SELECT COUNT(*) FROM contracts c JOIN fixtures f ON f.id = c.fixture_id WHERE f.organization_id = $1)`,
		organizationID,
	).Scan(&counts.Fixtures, &counts.Negotiations, &counts.Contracts)
	if err != nil {
		return fixture.Counts{}, err
	}
	return counts, nil
}

func (r *FixtureRepository) Facets(ctx context.Context, organizationID uuid.UUID) (fixture.FacetOptions, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return fixture.FacetOptions{}, err
	}

	distinct := func(query string) ([]string, error) {
		rows, err := tx.Query(ctx, query, organizationID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var values []string
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, rows.Err()
	}

	const fromBoth = ` FROM (
		SELECT n.%[1]s AS v FROM negotiations n JOIN fixtures f ON f.id = n.fixture_id WHERE f.organization_id = $1
		UNION
		SELECT c.%[1]s FROM contracts c JOIN fixtures f ON f.id = c.fixture_id WHERE f.organization_id = $1
	) AS u WHERE u.v <> '' ORDER BY u.v`

	const fromContracts = `SELECT DISTINCT c.%[1]s FROM contracts c
		JOIN fixtures f ON f.id = c.fixture_id
		WHERE f.organization_id = $1 AND c.%[1]s <> '' ORDER BY c.%[1]s`

	var out fixture.FacetOptions
	queries := []struct {
		dest  *[]string
		query string
	}{
		{&out.Statuses, fmt.Sprintf("SELECT DISTINCT u.v"+fromBoth, "status")},
		{&out.VesselNames, fmt.Sprintf("SELECT DISTINCT u.v"+fromBoth, "vessel_name")},
		{&out.OwnerNames, fmt.Sprintf("SELECT DISTINCT u.v"+fromBoth, "owner_name")},
		{&out.ChartererNames, fmt.Sprintf("SELECT DISTINCT u.v"+fromBoth, "charterer_name")},
		{&out.CargoTypes, fmt.Sprintf("SELECT DISTINCT u.v"+fromBoth, "cargo_type")},
		{&out.LoadPorts, fmt.Sprintf(fromContracts, "load_port")},
		{&out.DischargePorts, fmt.Sprintf(fromContracts, "discharge_port")},
	}
	for _, q := range queries {
		values, err := distinct(q.query)
		if err != nil {
			return fixture.FacetOptions{}, err
		}
		*q.dest = values
	}
	return out, nil
}
