package viewmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowSource tags which record a grid row was projected from.
type RowSource string

const (
	SourceContract     RowSource = "contract"
	SourceRecapManager RowSource = "recap-manager"
	SourceNegotiation  RowSource = "negotiation"
)

// FixtureRow is the flat, UI-ready projection of one contract, recap or
// unattached negotiation. Rows are computed once per fetch and never
// mutated afterwards; optional fields stay nil when the underlying data is
// missing.
type FixtureRow struct {
	RowID          string    `json:"rowId"`
	Source         RowSource `json:"source"`
	FixtureID      uuid.UUID `json:"fixtureId"`
	OrderReference string    `json:"orderReference"`
	Stage          string    `json:"stage"`

	ContractID    *uuid.UUID `json:"contractId,omitempty"`
	NegotiationID *uuid.UUID `json:"negotiationId,omitempty"`

	Status        string `json:"status"`
	VesselName    string `json:"vesselName"`
	OwnerName     string `json:"ownerName"`
	ChartererName string `json:"chartererName"`
	CargoType     string `json:"cargoType,omitempty"`
	LoadPort      string `json:"loadPort,omitempty"`
	DischargePort string `json:"dischargePort,omitempty"`

	CargoQuantityMT *decimal.Decimal `json:"cargoQuantityMt,omitempty"`
	LaycanFrom      *time.Time       `json:"laycanFrom,omitempty"`
	LaycanTo        *time.Time       `json:"laycanTo,omitempty"`

	FreightRate          *decimal.Decimal `json:"freightRate,omitempty"`
	DemurrageRate        *decimal.Decimal `json:"demurrageRate,omitempty"`
	DespatchRate         *decimal.Decimal `json:"despatchRate,omitempty"`
	MarketIndexRate      *decimal.Decimal `json:"marketIndexRate,omitempty"`
	AddressCommissionPct *decimal.Decimal `json:"addressCommissionPct,omitempty"`
	BrokerCommissionPct  *decimal.Decimal `json:"brokerCommissionPct,omitempty"`

	ApprovalStatus  string `json:"approvalStatus,omitempty"`
	SignatureStatus string `json:"signatureStatus,omitempty"`

	// Derived at transform time.
	FreightSavingsPct   *decimal.Decimal `json:"freightSavingsPct,omitempty"`
	DemurrageSavingsPct *decimal.Decimal `json:"demurrageSavingsPct,omitempty"`
	FreightVsMarketPct  *decimal.Decimal `json:"freightVsMarketPct,omitempty"`

	DaysToWorkingCopy      *int `json:"daysToWorkingCopy,omitempty"`
	DaysWorkingCopyToFinal *int `json:"daysWorkingCopyToFinal,omitempty"`
	DaysFinalToFullySigned *int `json:"daysFinalToFullySigned,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
