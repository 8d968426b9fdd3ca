package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ContractKindContract = "contract"
	ContractKindRecap    = "recap"
)

type Fixture struct {
	ID             string
	OrganizationID string
	OrderReference string
	Stage          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Negotiation struct {
	ID                       string
	FixtureID                string
	Status                   string
	VesselName               string
	OwnerName                string
	ChartererName            string
	CargoType                string
	LaycanFrom               *time.Time
	LaycanTo                 *time.Time
	IndicativeFreightRates   []byte
	IndicativeDemurrageRates []byte
	AgreedFreightRate        decimal.NullDecimal
	AgreedDemurrageRate      decimal.NullDecimal
	MarketIndexRate          decimal.NullDecimal
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

type Contract struct {
	ID                   string
	FixtureID            string
	NegotiationID        string
	Kind                 string
	Status               string
	VesselName           string
	OwnerName            string
	ChartererName        string
	CargoType            string
	CargoQuantityMT      decimal.NullDecimal
	LoadPort             string
	DischargePort        string
	LaycanFrom           *time.Time
	LaycanTo             *time.Time
	FreightRate          decimal.NullDecimal
	DemurrageRate        decimal.NullDecimal
	DespatchRate         decimal.NullDecimal
	AddressCommissionPct decimal.NullDecimal
	BrokerCommissionPct  decimal.NullDecimal
	ApprovalStatus       string
	SignatureStatus      string
	CreatedAt            time.Time
	WorkingCopyAt        *time.Time
	FinalAt              *time.Time
	FullySignedAt        *time.Time
	UpdatedAt            time.Time
}

// GridBookmark keeps timestamps as raw epoch milliseconds, matching the
// upstream storage format.
type GridBookmark struct {
	ID          string
	UserID      string
	Name        string
	IsDefault   bool
	Filters     []byte
	TableState  []byte
	CreatedAtMS int64
	UpdatedAtMS int64
}
