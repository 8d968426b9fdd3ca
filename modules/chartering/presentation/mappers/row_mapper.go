package mappers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/viewmodels"
)

// Display placeholders used when a nested relation did not resolve. Missing
// data degrades to a placeholder, never to an error.
const (
	PlaceholderVessel  = "TBN"
	PlaceholderCompany = "Unknown"
	PlaceholderDash    = "—"
)

var hundred = decimal.NewFromInt(100)

// FixtureRows flattens resolved fixtures into one row per contract, recap
// manager or not-yet-contracted negotiation. A fresh slice is produced on
// every call; emitted rows are never mutated.
func FixtureRows(fixtures []fixture.Fixture) []viewmodels.FixtureRow {
	rows := make([]viewmodels.FixtureRow, 0, len(fixtures))
	for i := range fixtures {
		rows = append(rows, fixtureRows(&fixtures[i])...)
	}
	return rows
}

func fixtureRows(f *fixture.Fixture) []viewmodels.FixtureRow {
	type tagged struct {
		contract *fixture.Contract
		source   viewmodels.RowSource
	}

	// Contracts take source precedence over recaps by list order.
	union := make([]tagged, 0, len(f.Contracts)+len(f.RecapManagers))
	for i := range f.Contracts {
		union = append(union, tagged{&f.Contracts[i], viewmodels.SourceContract})
	}
	for i := range f.RecapManagers {
		union = append(union, tagged{&f.RecapManagers[i].Contract, viewmodels.SourceRecapManager})
	}

	// Deduplicate by negotiation id, first entry wins; one negotiation must
	// never yield two rows.
	covered := make(map[uuid.UUID]struct{}, len(union))
	deduped := make([]tagged, 0, len(union))
	for _, entry := range union {
		negID := entry.contract.NegotiationID
		if negID != uuid.Nil {
			if _, dup := covered[negID]; dup {
				continue
			}
			covered[negID] = struct{}{}
		}
		deduped = append(deduped, entry)
	}

	rows := make([]viewmodels.FixtureRow, 0, len(deduped)+len(f.Negotiations))
	for _, entry := range deduped {
		rows = append(rows, contractRow(f, entry.contract, entry.source))
	}
	for i := range f.Negotiations {
		neg := &f.Negotiations[i]
		if _, done := covered[neg.ID]; done {
			continue
		}
		rows = append(rows, negotiationRow(f, neg))
	}
	return rows
}

// negotiationRow is the synthetic "negotiation in progress, no contract
// yet" projection. Port, vessel-voyage and cargo details are unknown at
// this stage and stay empty.
func negotiationRow(f *fixture.Fixture, neg *fixture.Negotiation) viewmodels.FixtureRow {
	negID := neg.ID
	updated := neg.UpdatedAt
	return viewmodels.FixtureRow{
		RowID:          "negotiation:" + neg.ID.String(),
		Source:         viewmodels.SourceNegotiation,
		FixtureID:      f.ID,
		OrderReference: f.OrderReference,
		Stage:          string(f.Stage),
		NegotiationID:  &negID,
		Status:         neg.Status,
		VesselName:     orPlaceholder(neg.VesselName, PlaceholderVessel),
		OwnerName:      orPlaceholder(neg.OwnerName, PlaceholderCompany),
		ChartererName:  orPlaceholder(neg.ChartererName, PlaceholderCompany),
		LaycanFrom:     neg.LaycanFrom,
		LaycanTo:       neg.LaycanTo,
		FreightRate:    neg.AgreedFreightRate,
		DemurrageRate:  neg.AgreedDemurrageRate,
		CreatedAt:      neg.CreatedAt,
		UpdatedAt:      &updated,
	}
}

func contractRow(f *fixture.Fixture, c *fixture.Contract, source viewmodels.RowSource) viewmodels.FixtureRow {
	contractID := c.ID
	updated := c.UpdatedAt
	row := viewmodels.FixtureRow{
		RowID:          string(source) + ":" + c.ID.String(),
		Source:         source,
		FixtureID:      f.ID,
		OrderReference: f.OrderReference,
		Stage:          string(f.Stage),
		ContractID:     &contractID,
		Status:         c.Status,
		VesselName:     orPlaceholder(c.VesselName, PlaceholderVessel),
		OwnerName:      orPlaceholder(c.OwnerName, PlaceholderCompany),
		ChartererName:  orPlaceholder(c.ChartererName, PlaceholderCompany),
		CargoType:      c.CargoType,
		LoadPort:       orPlaceholder(c.LoadPort, PlaceholderDash),
		DischargePort:  orPlaceholder(c.DischargePort, PlaceholderDash),

		CargoQuantityMT: c.CargoQuantityMT,
		LaycanFrom:      c.LaycanFrom,
		LaycanTo:        c.LaycanTo,

		FreightRate:          c.FreightRate,
		DemurrageRate:        c.DemurrageRate,
		DespatchRate:         c.DespatchRate,
		AddressCommissionPct: c.AddressCommissionPct,
		BrokerCommissionPct:  c.BrokerCommissionPct,

		ApprovalStatus:  string(c.Approval),
		SignatureStatus: string(c.Signature),

		CreatedAt: c.CreatedAt,
		UpdatedAt: &updated,

		DaysToWorkingCopy:      daysBetween(&c.CreatedAt, c.WorkingCopyAt),
		DaysWorkingCopyToFinal: daysBetween(c.WorkingCopyAt, c.FinalAt),
		DaysFinalToFullySigned: daysBetween(c.FinalAt, c.FullySignedAt),
	}

	if neg := f.NegotiationByID(c.NegotiationID); neg != nil {
		negID := neg.ID
		row.NegotiationID = &negID
		// Negotiation values win over stale contract-level duplicates.
		if neg.LaycanFrom != nil {
			row.LaycanFrom = neg.LaycanFrom
		}
		if neg.LaycanTo != nil {
			row.LaycanTo = neg.LaycanTo
		}
		if neg.AgreedFreightRate != nil {
			row.FreightRate = neg.AgreedFreightRate
		}
		if neg.AgreedDemurrageRate != nil {
			row.DemurrageRate = neg.AgreedDemurrageRate
		}
		row.MarketIndexRate = neg.MarketIndexRate

		row.FreightSavingsPct = savingsPct(neg.IndicativeFreightRates, row.FreightRate)
		row.DemurrageSavingsPct = savingsPct(neg.IndicativeDemurrageRates, row.DemurrageRate)
		row.FreightVsMarketPct = vsMarketPct(row.FreightRate, neg.MarketIndexRate)
	}

	return row
}

// savingsPct is the spread between the highest indicative rate and the
// agreed rate, as a percentage of the highest indicative.
func savingsPct(indicative []decimal.Decimal, agreed *decimal.Decimal) *decimal.Decimal {
	if len(indicative) == 0 || agreed == nil {
		return nil
	}
	highest := indicative[0]
	for _, rate := range indicative[1:] {
		if rate.GreaterThan(highest) {
			highest = rate
		}
	}
	if highest.IsZero() {
		return nil
	}
	pct := highest.Sub(*agreed).Div(highest).Mul(hundred).Round(2)
	return &pct
}

// vsMarketPct is the agreed rate's deviation from the market index, as a
// percentage of the index.
func vsMarketPct(agreed, market *decimal.Decimal) *decimal.Decimal {
	if agreed == nil || market == nil || market.IsZero() {
		return nil
	}
	pct := agreed.Sub(*market).Div(*market).Mul(hundred).Round(2)
	return &pct
}

// daysBetween clamps to nil when either workflow timestamp is missing.
func daysBetween(from, to *time.Time) *int {
	if from == nil || to == nil {
		return nil
	}
	days := int(to.Sub(*from).Hours() / 24)
	return &days
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
