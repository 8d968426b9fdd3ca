package chartering

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lemu/seamless-sea-sub000/pkg/application"
)

// DemoOrganizationID is stable so repeated seed runs stay idempotent and
// local clients can hardcode the header value.
var DemoOrganizationID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:demo-organization"))

// DemoUserID matches the X-User-ID header of the demo environment.
var DemoUserID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:demo-user"))

type demoDeal struct {
	orderRef  string
	stage     string
	status    string
	vessel    string
	owner     string
	charterer string
	cargo     string
	loadPort  string
	dischPort string
	quantity  string
	freight   string
	demurrage string
	kind      string
	ageDays   int
}

var demoDeals = []demoDeal{
	{"ORD-1001", "negotiation", "firm_offer", "MV Atlas", "Meridian Shipping", "Northgrain AG", "Wheat", "Odesa", "Alexandria", "52000", "24.50", "18000", "", 2},
	{"ORD-1002", "negotiation", "counter", "MV Borealis", "Polaris Carriers", "Transoil SA", "Crude Palm Oil", "Belawan", "Rotterdam", "31000", "41.75", "22500", "", 5},
	{"ORD-1003", "contract", "working_copy", "MV Antares", "Meridian Shipping", "Northgrain AG", "Corn", "Santos", "Qingdao", "63000", "33.20", "21000", "contract", 9},
	{"ORD-1004", "contract", "fully_signed", "MV Cassiopeia", "Auriga Bulk", "Harbor Metals", "Iron Ore", "Port Hedland", "Caofeidian", "170000", "9.85", "30000", "contract", 21},
	{"ORD-1005", "recap", "final", "MV Delphinus", "Polaris Carriers", "Transoil SA", "Soybeans", "New Orleans", "Tokyo", "58000", "28.40", "19500", "recap", 14},
}

// SeedDemoData populates a small but filterable fixtures board: every
// facet pool ends up with at least two distinct values.
func SeedDemoData(ctx context.Context, app application.Application) error {
	pool := app.DB()
	now := time.Now().UTC()

	for _, deal := range demoDeals {
		fixtureID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:demo-fixture:"+deal.orderRef))
		createdAt := now.AddDate(0, 0, -deal.ageDays)

		_, err := pool.Exec(ctx, `
			INSERT INTO fixtures (id, organization_id, order_reference, stage, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (id) DO NOTHING
		`, fixtureID, DemoOrganizationID, deal.orderRef, deal.stage, createdAt)
		if err != nil {
			return fmt.Errorf("seed fixture %s: %w", deal.orderRef, err)
		}

		negotiationID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:demo-negotiation:"+deal.orderRef))
		freight, err := decimal.NewFromString(deal.freight)
		if err != nil {
			return fmt.Errorf("seed negotiation %s: %w", deal.orderRef, err)
		}
		indicative, err := json.Marshal([]decimal.Decimal{
			freight.Mul(decimal.NewFromFloat(1.1)),
			freight.Mul(decimal.NewFromFloat(1.05)),
			freight,
		})
		if err != nil {
			return err
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO negotiations (
				id, fixture_id, status, vessel_name, owner_name, charterer_name,
				cargo_type, laycan_from, laycan_to,
				indicative_freight_rates, agreed_freight_rate, agreed_demurrage_rate,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
			ON CONFLICT (id) DO NOTHING
		`, negotiationID, fixtureID, deal.status, deal.vessel, deal.owner, deal.charterer,
			deal.cargo, createdAt.AddDate(0, 0, 10), createdAt.AddDate(0, 0, 15),
			indicative, deal.freight, deal.demurrage, createdAt)
		if err != nil {
			return fmt.Errorf("seed negotiation %s: %w", deal.orderRef, err)
		}

		if deal.kind == "" {
			continue
		}
		contractID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:demo-contract:"+deal.orderRef))
		_, err = pool.Exec(ctx, `
			INSERT INTO contracts (
				id, fixture_id, negotiation_id, kind, status,
				vessel_name, owner_name, charterer_name, cargo_type, cargo_quantity_mt,
				load_port, discharge_port, laycan_from, laycan_to,
				freight_rate, demurrage_rate, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
			ON CONFLICT (id) DO NOTHING
		`, contractID, fixtureID, negotiationID, deal.kind, deal.status,
			deal.vessel, deal.owner, deal.charterer, deal.cargo, deal.quantity,
			deal.loadPort, deal.dischPort, createdAt.AddDate(0, 0, 10), createdAt.AddDate(0, 0, 15),
			deal.freight, deal.demurrage, createdAt.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("seed contract %s: %w", deal.orderRef, err)
		}
	}

	return seedDemoBookmark(ctx, app)
}

func seedDemoBookmark(ctx context.Context, app application.Application) error {
	filters, err := json.Marshal(map[string]any{
		"activeFilters": map[string]any{
			"status": map[string]any{"kind": "multiselect", "options": []string{"firm_offer", "counter"}},
		},
		"pinnedFilters": []string{"status", "vessels"},
	})
	if err != nil {
		return err
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("chartering:demo-bookmark:open-negotiations"))
	nowMS := time.Now().UTC().UnixMilli()
	_, err = app.DB().Exec(ctx, `
		INSERT INTO grid_bookmarks (id, user_id, name, is_default, filters, table_state, created_at_ms, updated_at_ms)
		VALUES ($1, $2, $3, FALSE, $4, '{}', $5, $5)
		ON CONFLICT (id) DO NOTHING
	`, id, DemoUserID, "Open negotiations", filters, nowMS)
	if err != nil {
		return fmt.Errorf("seed bookmark: %w", err)
	}
	return nil
}
