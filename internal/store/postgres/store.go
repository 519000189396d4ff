// Package postgres is a store.Store backed by PostgreSQL.
package postgres

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
)

// Amounts are uint64 and may exceed BIGINT, so they are stored as NUMERIC
// and moved as decimal text.
const schema = `
CREATE TABLE IF NOT EXISTS pools (
	id              BYTEA PRIMARY KEY,
	asset_greater   BYTEA NOT NULL,
	asset_lesser    BYTEA NOT NULL,
	vault_greater   BYTEA NOT NULL,
	vault_lesser    BYTEA NOT NULL,
	claim_mint      BYTEA NOT NULL,
	fee_rate_bp     INTEGER NOT NULL,
	reserve_greater NUMERIC(20, 0) NOT NULL,
	reserve_lesser  NUMERIC(20, 0) NOT NULL,
	claim_supply    NUMERIC(20, 0) NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS protocol_config (
	singleton           BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	admin               BYTEA NOT NULL,
	fee_recipient       BYTEA NOT NULL,
	protocol_fee_rate_bp INTEGER NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_balances (
	owner  BYTEA NOT NULL,
	asset  BYTEA NOT NULL,
	amount NUMERIC(20, 0) NOT NULL,
	PRIMARY KEY (owner, asset)
);

CREATE TABLE IF NOT EXISTS ledger_supplies (
	asset  BYTEA PRIMARY KEY,
	amount NUMERIC(20, 0) NOT NULL
);
`

const selectPool = `
	SELECT id, asset_greater, asset_lesser, vault_greater, vault_lesser, claim_mint, fee_rate_bp,
		reserve_greater::text, reserve_lesser::text, claim_supply::text
	FROM pools`

// Store provides Postgres persistence for pools, the protocol config and
// ledger balances.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidArgument, "pg dsn is required")
	}
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.New")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, errors.Wrap(err, "pool.Ping")
	}
	return &Store{pool: p}, nil
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return errors.Wrap(err, "s.pool.Exec")
}

// GetPool implements store.Store.
func (s *Store) GetPool(ctx context.Context, id common.Address) (pool.Pool, error) {
	row := s.pool.QueryRow(ctx, selectPool+` WHERE id = $1`, id.Bytes())
	p, err := scanPool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pool.Pool{}, apperrors.ErrPoolNotFound
		}
		return pool.Pool{}, err
	}
	return p, nil
}

// PutPool implements store.Store.
func (s *Store) PutPool(ctx context.Context, p pool.Pool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pools (
			id, asset_greater, asset_lesser, vault_greater, vault_lesser, claim_mint, fee_rate_bp,
			reserve_greater, reserve_lesser, claim_supply, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10::numeric, now())
		ON CONFLICT (id)
		DO UPDATE SET
			reserve_greater = EXCLUDED.reserve_greater,
			reserve_lesser = EXCLUDED.reserve_lesser,
			claim_supply = EXCLUDED.claim_supply,
			updated_at = now()
	`,
		p.ID.Bytes(),
		p.AssetGreater.Bytes(),
		p.AssetLesser.Bytes(),
		p.VaultGreater.Bytes(),
		p.VaultLesser.Bytes(),
		p.ClaimMint.Bytes(),
		int32(p.FeeRateBP),
		strconv.FormatUint(p.ReserveGreater, 10),
		strconv.FormatUint(p.ReserveLesser, 10),
		strconv.FormatUint(p.ClaimSupply, 10),
	)
	return errors.Wrap(err, "s.pool.Exec")
}

// ListPools implements store.Store.
func (s *Store) ListPools(ctx context.Context) ([]pool.Pool, error) {
	rows, err := s.pool.Query(ctx, selectPool+` ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "s.pool.Query")
	}
	defer rows.Close()

	var out []pool.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "rows.Err")
}

// GetConfig implements store.Store.
func (s *Store) GetConfig(ctx context.Context) (protocol.Config, error) {
	var (
		admin, recipient []byte
		rate             int32
	)
	row := s.pool.QueryRow(ctx, `SELECT admin, fee_recipient, protocol_fee_rate_bp FROM protocol_config WHERE singleton`)
	if err := row.Scan(&admin, &recipient, &rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return protocol.Config{}, apperrors.ErrConfigNotInitialized
		}
		return protocol.Config{}, errors.Wrap(err, "row.Scan")
	}
	return protocol.Config{
		Admin:             common.BytesToAddress(admin),
		FeeRecipient:      common.BytesToAddress(recipient),
		ProtocolFeeRateBP: uint16(rate),
		Initialized:       true,
	}, nil
}

// PutConfig implements store.Store.
func (s *Store) PutConfig(ctx context.Context, cfg protocol.Config) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO protocol_config (singleton, admin, fee_recipient, protocol_fee_rate_bp, updated_at)
		VALUES (TRUE, $1, $2, $3, now())
		ON CONFLICT (singleton) DO UPDATE
		SET admin = EXCLUDED.admin,
			fee_recipient = EXCLUDED.fee_recipient,
			protocol_fee_rate_bp = EXCLUDED.protocol_fee_rate_bp,
			updated_at = now()
	`, cfg.Admin.Bytes(), cfg.FeeRecipient.Bytes(), int32(cfg.ProtocolFeeRateBP))
	return errors.Wrap(err, "s.pool.Exec")
}

// LoadBalances implements ledger.Journal.
func (s *Store) LoadBalances(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	rows, err := s.pool.Query(ctx, `SELECT owner, asset, amount::text FROM ledger_balances`)
	if err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "s.pool.Query")
	}
	for rows.Next() {
		var (
			owner, asset []byte
			amount       string
		)
		if err := rows.Scan(&owner, &asset, &amount); err != nil {
			rows.Close()
			return ledger.Snapshot{}, errors.Wrap(err, "rows.Scan")
		}
		v, err := strconv.ParseUint(amount, 10, 64)
		if err != nil {
			rows.Close()
			return ledger.Snapshot{}, errors.Wrap(err, "amount")
		}
		snap.Balances = append(snap.Balances, ledger.Balance{
			Owner:  common.BytesToAddress(owner),
			Asset:  common.BytesToAddress(asset),
			Amount: v,
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "rows.Err")
	}

	rows, err = s.pool.Query(ctx, `SELECT asset, amount::text FROM ledger_supplies`)
	if err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "s.pool.Query")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			asset  []byte
			amount string
		)
		if err := rows.Scan(&asset, &amount); err != nil {
			return ledger.Snapshot{}, errors.Wrap(err, "rows.Scan")
		}
		v, err := strconv.ParseUint(amount, 10, 64)
		if err != nil {
			return ledger.Snapshot{}, errors.Wrap(err, "amount")
		}
		snap.Supplies = append(snap.Supplies, ledger.Supply{Asset: common.BytesToAddress(asset), Amount: v})
	}
	return snap, errors.Wrap(rows.Err(), "rows.Err")
}

// PutBalances implements ledger.Journal. The entries are written in one
// transaction and zero amounts delete their rows.
func (s *Store) PutBalances(ctx context.Context, snap ledger.Snapshot) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, b := range snap.Balances {
			if b.Amount == 0 {
				if _, err := tx.Exec(ctx, `DELETE FROM ledger_balances WHERE owner = $1 AND asset = $2`,
					b.Owner.Bytes(), b.Asset.Bytes()); err != nil {
					return errors.Wrap(err, "tx.Exec")
				}
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO ledger_balances (owner, asset, amount) VALUES ($1, $2, $3::numeric)
				ON CONFLICT (owner, asset) DO UPDATE SET amount = EXCLUDED.amount
			`, b.Owner.Bytes(), b.Asset.Bytes(), strconv.FormatUint(b.Amount, 10)); err != nil {
				return errors.Wrap(err, "tx.Exec")
			}
		}
		for _, sp := range snap.Supplies {
			if sp.Amount == 0 {
				if _, err := tx.Exec(ctx, `DELETE FROM ledger_supplies WHERE asset = $1`, sp.Asset.Bytes()); err != nil {
					return errors.Wrap(err, "tx.Exec")
				}
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO ledger_supplies (asset, amount) VALUES ($1, $2::numeric)
				ON CONFLICT (asset) DO UPDATE SET amount = EXCLUDED.amount
			`, sp.Asset.Bytes(), strconv.FormatUint(sp.Amount, 10)); err != nil {
				return errors.Wrap(err, "tx.Exec")
			}
		}
		return nil
	})
	return errors.Wrap(err, "pgx.BeginFunc")
}

// Close implements store.Store.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanPool(row pgx.Row) (pool.Pool, error) {
	var (
		id, assetG, assetL, vaultG, vaultL, mint []byte
		fee                                      int32
		reserveG, reserveL, supply               string
	)
	if err := row.Scan(&id, &assetG, &assetL, &vaultG, &vaultL, &mint, &fee, &reserveG, &reserveL, &supply); err != nil {
		return pool.Pool{}, errors.Wrap(err, "row.Scan")
	}

	p := pool.Pool{
		ID:           common.BytesToAddress(id),
		AssetGreater: common.BytesToAddress(assetG),
		AssetLesser:  common.BytesToAddress(assetL),
		VaultGreater: common.BytesToAddress(vaultG),
		VaultLesser:  common.BytesToAddress(vaultL),
		ClaimMint:    common.BytesToAddress(mint),
		FeeRateBP:    uint16(fee),
	}

	var err error
	if p.ReserveGreater, err = strconv.ParseUint(reserveG, 10, 64); err != nil {
		return pool.Pool{}, errors.Wrap(err, "reserve_greater")
	}
	if p.ReserveLesser, err = strconv.ParseUint(reserveL, 10, 64); err != nil {
		return pool.Pool{}, errors.Wrap(err, "reserve_lesser")
	}
	if p.ClaimSupply, err = strconv.ParseUint(supply, 10, 64); err != nil {
		return pool.Pool{}, errors.Wrap(err, "claim_supply")
	}
	return p, nil
}
