package mappers_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/mappers"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/viewmodels"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func contractedFixture() fixture.Fixture {
	fixtureID := uuid.New()
	negID := uuid.New()
	created := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	return fixture.Fixture{
		ID:             fixtureID,
		OrderReference: "ORD-1001",
		Stage:          fixture.StageContract,
		Negotiations: []fixture.Negotiation{{
			ID:                     negID,
			FixtureID:              fixtureID,
			Status:                 "fixed",
			VesselName:             "MV Atlas",
			OwnerName:              "Poseidon Shipping",
			ChartererName:          "Ceres Trading",
			LaycanFrom:             timePtr(created.AddDate(0, 0, 20)),
			LaycanTo:               timePtr(created.AddDate(0, 0, 25)),
			IndicativeFreightRates: []decimal.Decimal{dec("20"), dec("25"), dec("22")},
			AgreedFreightRate:      decPtr("20"),
			MarketIndexRate:        decPtr("16"),
			CreatedAt:              created,
		}},
		Contracts: []fixture.Contract{{
			ID:            uuid.New(),
			FixtureID:     fixtureID,
			NegotiationID: negID,
			Status:        "final",
			VesselName:    "MV Atlas",
			OwnerName:     "Poseidon Shipping",
			ChartererName: "Ceres Trading",
			CargoType:     "grain",
			LoadPort:      "Santos",
			DischargePort: "Rotterdam",
			// Stale: the negotiation's agreed rate must win.
			FreightRate:   decPtr("21"),
			CreatedAt:     created,
			WorkingCopyAt: timePtr(created.AddDate(0, 0, 3)),
			FinalAt:       timePtr(created.AddDate(0, 0, 10)),
			FullySignedAt: timePtr(created.AddDate(0, 0, 12)),
		}},
	}
}

func TestFixtureRows_DeduplicatesContractedNegotiation(t *testing.T) {
	t.Parallel()

	rows := mappers.FixtureRows([]fixture.Fixture{contractedFixture()})

	// One negotiation with a contract: exactly one row, the contract one.
	require.Len(t, rows, 1)
	assert.Equal(t, viewmodels.SourceContract, rows[0].Source)
}

func TestFixtureRows_NegotiationValuesWinOverStaleContractFields(t *testing.T) {
	t.Parallel()

	rows := mappers.FixtureRows([]fixture.Fixture{contractedFixture()})
	require.Len(t, rows, 1)

	require.NotNil(t, rows[0].FreightRate)
	assert.True(t, rows[0].FreightRate.Equal(dec("20")))
}

func TestFixtureRows_DerivedPercentages(t *testing.T) {
	t.Parallel()

	rows := mappers.FixtureRows([]fixture.Fixture{contractedFixture()})
	require.Len(t, rows, 1)
	row := rows[0]

	// Highest indicative 25, agreed 20: (25-20)/25 = 20%.
	require.NotNil(t, row.FreightSavingsPct)
	assert.True(t, row.FreightSavingsPct.Equal(dec("20")))

	// Agreed 20 vs market 16: (20-16)/16 = 25%.
	require.NotNil(t, row.FreightVsMarketPct)
	assert.True(t, row.FreightVsMarketPct.Equal(dec("25")))

	// No indicative demurrage quotes: no savings figure.
	assert.Nil(t, row.DemurrageSavingsPct)
}

func TestFixtureRows_WorkflowDayCounts(t *testing.T) {
	t.Parallel()

	rows := mappers.FixtureRows([]fixture.Fixture{contractedFixture()})
	require.Len(t, rows, 1)
	row := rows[0]

	require.NotNil(t, row.DaysToWorkingCopy)
	assert.Equal(t, 3, *row.DaysToWorkingCopy)
	require.NotNil(t, row.DaysWorkingCopyToFinal)
	assert.Equal(t, 7, *row.DaysWorkingCopyToFinal)
	require.NotNil(t, row.DaysFinalToFullySigned)
	assert.Equal(t, 2, *row.DaysFinalToFullySigned)
}

func TestFixtureRows_DayCountNilWhenTimestampMissing(t *testing.T) {
	t.Parallel()

	f := contractedFixture()
	f.Contracts[0].FullySignedAt = nil
	rows := mappers.FixtureRows([]fixture.Fixture{f})
	require.Len(t, rows, 1)

	assert.Nil(t, rows[0].DaysFinalToFullySigned)
	assert.NotNil(t, rows[0].DaysToWorkingCopy)
}

func TestFixtureRows_UnattachedNegotiationYieldsSyntheticRow(t *testing.T) {
	t.Parallel()

	f := contractedFixture()
	f.Negotiations = append(f.Negotiations, fixture.Negotiation{
		ID:        uuid.New(),
		FixtureID: f.ID,
		Status:    "on_subs",
		CreatedAt: time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC),
	})

	rows := mappers.FixtureRows([]fixture.Fixture{f})
	require.Len(t, rows, 2)

	var synthetic *viewmodels.FixtureRow
	for i := range rows {
		if rows[i].Source == viewmodels.SourceNegotiation {
			synthetic = &rows[i]
		}
	}
	require.NotNil(t, synthetic)
	assert.Equal(t, "on_subs", synthetic.Status)
	// Vessel/company unresolved at this stage: placeholders, not errors.
	assert.Equal(t, mappers.PlaceholderVessel, synthetic.VesselName)
	assert.Equal(t, mappers.PlaceholderCompany, synthetic.OwnerName)
	// Ports and cargo are unknowable before a contract exists.
	assert.Empty(t, synthetic.LoadPort)
	assert.Empty(t, synthetic.CargoType)
}

func TestFixtureRows_RecapDeduplicatedAgainstContract(t *testing.T) {
	t.Parallel()

	f := contractedFixture()
	// A recap for the same negotiation: contract keeps precedence.
	f.RecapManagers = []fixture.RecapManager{{Contract: fixture.Contract{
		ID:            uuid.New(),
		FixtureID:     f.ID,
		NegotiationID: f.Negotiations[0].ID,
		Status:        "working_copy",
		CreatedAt:     f.Contracts[0].CreatedAt,
	}}}

	rows := mappers.FixtureRows([]fixture.Fixture{f})
	require.Len(t, rows, 1)
	assert.Equal(t, viewmodels.SourceContract, rows[0].Source)
}

func TestFixtureRows_TransformIsIdempotent(t *testing.T) {
	t.Parallel()

	input := []fixture.Fixture{contractedFixture()}
	first := mappers.FixtureRows(input)
	second := mappers.FixtureRows(input)

	require.Len(t, second, len(first))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("row lists differ between identical transforms:\n%s", diff)
	}
	// Deep-equal, not reference-equal: fresh rows every run.
	assert.NotSame(t, &first[0], &second[0])
}

func TestFixtureRows_MissingVesselGetsPlaceholder(t *testing.T) {
	t.Parallel()

	f := contractedFixture()
	f.Contracts[0].VesselName = ""
	f.Contracts[0].LoadPort = ""

	rows := mappers.FixtureRows([]fixture.Fixture{f})
	require.Len(t, rows, 1)
	assert.Equal(t, mappers.PlaceholderVessel, rows[0].VesselName)
	assert.Equal(t, mappers.PlaceholderDash, rows[0].LoadPort)
}
