package fixture

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is the deal lifecycle position of a fixture.
type Stage string

const (
	StageDraft       Stage = "draft"
	StageNegotiation Stage = "negotiation"
	StageContract    Stage = "contract"
	StageSigned      Stage = "signed"
	StageFixed       Stage = "fixed"
)

// ApprovalStatus is the contract approval sub-status.
type ApprovalStatus string

const (
	ApprovalNotRequested ApprovalStatus = "not_requested"
	ApprovalPending      ApprovalStatus = "pending"
	ApprovalApproved     ApprovalStatus = "approved"
	ApprovalRejected     ApprovalStatus = "rejected"
)

// SignatureStatus is the contract signature sub-status.
type SignatureStatus string

const (
	SignatureNotSent     SignatureStatus = "not_sent"
	SignaturePartial     SignatureStatus = "partially_signed"
	SignatureFullySigned SignatureStatus = "fully_signed"
)

// Negotiation is one negotiation thread under a fixture. Rates are held as
// decimals; indicative rates are the quotes collected before agreement.
type Negotiation struct {
	ID                       uuid.UUID
	FixtureID                uuid.UUID
	Status                   string
	VesselName               string
	OwnerName                string
	ChartererName            string
	CargoType                string
	LaycanFrom               *time.Time
	LaycanTo                 *time.Time
	IndicativeFreightRates   []decimal.Decimal
	IndicativeDemurrageRates []decimal.Decimal
	AgreedFreightRate        *decimal.Decimal
	AgreedDemurrageRate      *decimal.Decimal
	MarketIndexRate          *decimal.Decimal
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Contract is a dry-market contract produced by a negotiation, carrying the
// workflow timestamps of the signing pipeline.
type Contract struct {
	ID                   uuid.UUID
	FixtureID            uuid.UUID
	NegotiationID        uuid.UUID
	Status               string
	VesselName           string
	OwnerName            string
	ChartererName        string
	CargoType            string
	CargoQuantityMT      *decimal.Decimal
	LoadPort             string
	DischargePort        string
	LaycanFrom           *time.Time
	LaycanTo             *time.Time
	FreightRate          *decimal.Decimal
	DemurrageRate        *decimal.Decimal
	DespatchRate         *decimal.Decimal
	AddressCommissionPct *decimal.Decimal
	BrokerCommissionPct  *decimal.Decimal
	Approval             ApprovalStatus
	Signature            SignatureStatus
	CreatedAt            time.Time
	WorkingCopyAt        *time.Time
	FinalAt              *time.Time
	FullySignedAt        *time.Time
	UpdatedAt            time.Time
}

// RecapManager is the wet-market (spot voyage) contract variant. It shares
// the contract shape; the two are distinct records upstream.
type RecapManager struct {
	Contract
}

// Fixture groups one order, its negotiations and the contracts/recaps they
// produced. Nested relations arrive resolved from the store.
type Fixture struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	OrderReference string
	Stage          Stage
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Contracts     []Contract
	RecapManagers []RecapManager
	Negotiations  []Negotiation
}

// NegotiationByID resolves a nested negotiation, if present.
func (f *Fixture) NegotiationByID(id uuid.UUID) *Negotiation {
	for i := range f.Negotiations {
		if f.Negotiations[i].ID == id {
			return &f.Negotiations[i]
		}
	}
	return nil
}
