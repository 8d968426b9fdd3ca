package persistence

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence/models"
)

func toDomainFixture(row *models.Fixture) (fixture.Fixture, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return fixture.Fixture{}, err
	}
	orgID, err := uuid.Parse(row.OrganizationID)
	if err != nil {
		return fixture.Fixture{}, err
	}
	return fixture.Fixture{
		ID:             id,
		OrganizationID: orgID,
		OrderReference: row.OrderReference,
		Stage:          fixture.Stage(row.Stage),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func toDomainNegotiation(row *models.Negotiation) (fixture.Negotiation, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return fixture.Negotiation{}, err
	}
	fixtureID, err := uuid.Parse(row.FixtureID)
	if err != nil {
		return fixture.Negotiation{}, err
	}
	freightQuotes, err := decodeRates(row.IndicativeFreightRates)
	if err != nil {
		return fixture.Negotiation{}, err
	}
	demurrageQuotes, err := decodeRates(row.IndicativeDemurrageRates)
	if err != nil {
		return fixture.Negotiation{}, err
	}
	return fixture.Negotiation{
		ID:                       id,
		FixtureID:                fixtureID,
		Status:                   row.Status,
		VesselName:               row.VesselName,
		OwnerName:                row.OwnerName,
		ChartererName:            row.ChartererName,
		CargoType:                row.CargoType,
		LaycanFrom:               row.LaycanFrom,
		LaycanTo:                 row.LaycanTo,
		IndicativeFreightRates:   freightQuotes,
		IndicativeDemurrageRates: demurrageQuotes,
		AgreedFreightRate:        nullableRate(row.AgreedFreightRate),
		AgreedDemurrageRate:      nullableRate(row.AgreedDemurrageRate),
		MarketIndexRate:          nullableRate(row.MarketIndexRate),
		CreatedAt:                row.CreatedAt,
		UpdatedAt:                row.UpdatedAt,
	}, nil
}

func toDomainContract(row *models.Contract) (fixture.Contract, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return fixture.Contract{}, err
	}
	fixtureID, err := uuid.Parse(row.FixtureID)
	if err != nil {
		return fixture.Contract{}, err
	}
	negotiationID, err := uuid.Parse(row.NegotiationID)
	if err != nil {
		return fixture.Contract{}, err
	}
	return fixture.Contract{
		ID:                   id,
		FixtureID:            fixtureID,
		NegotiationID:        negotiationID,
		Status:               row.Status,
		VesselName:           row.VesselName,
		OwnerName:            row.OwnerName,
		ChartererName:        row.ChartererName,
		CargoType:            row.CargoType,
		CargoQuantityMT:      nullableRate(row.CargoQuantityMT),
		LoadPort:             row.LoadPort,
		DischargePort:        row.DischargePort,
		LaycanFrom:           row.LaycanFrom,
		LaycanTo:             row.LaycanTo,
		FreightRate:          nullableRate(row.FreightRate),
		DemurrageRate:        nullableRate(row.DemurrageRate),
		DespatchRate:         nullableRate(row.DespatchRate),
		AddressCommissionPct: nullableRate(row.AddressCommissionPct),
		BrokerCommissionPct:  nullableRate(row.BrokerCommissionPct),
		Approval:             fixture.ApprovalStatus(row.ApprovalStatus),
		Signature:            fixture.SignatureStatus(row.SignatureStatus),
		CreatedAt:            row.CreatedAt,
		WorkingCopyAt:        row.WorkingCopyAt,
		FinalAt:              row.FinalAt,
		FullySignedAt:        row.FullySignedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func decodeRates(raw []byte) ([]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rates []decimal.Decimal
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func nullableRate(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
