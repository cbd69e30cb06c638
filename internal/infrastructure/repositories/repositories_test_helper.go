package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT,
		name TEXT,
		password_hash TEXT,
		role TEXT,
		kyc_status TEXT,
		kyc_verified_at DATETIME,
		date_of_birth DATETIME,
		referral_code TEXT,
		referred_by_id TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPlanTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		company TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		sector TEXT NOT NULL,
		price_per_unit_paise INTEGER NOT NULL,
		current_price_paise INTEGER NOT NULL,
		min_investment_paise INTEGER NOT NULL,
		eligibility_config TEXT,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createInvestmentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE investments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		plan_id TEXT NOT NULL,
		amount_paise INTEGER NOT NULL,
		units INTEGER NOT NULL,
		status TEXT NOT NULL,
		payment_ref TEXT,
		closed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createWalletTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		balance_paise INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount_paise INTEGER NOT NULL,
		description TEXT,
		reference_id TEXT UNIQUE,
		created_at DATETIME
	);`)
}

func createReferralTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE referrals (
		id TEXT PRIMARY KEY,
		referrer_id TEXT NOT NULL,
		referred_id TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		processed_at DATETIME,
		created_at DATETIME
	);`)
}

func createAuditLogTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		model_type TEXT,
		model_id TEXT,
		old_values TEXT,
		new_values TEXT,
		metadata TEXT,
		actor_id TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at DATETIME
	);`)
}

func createSupportTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE support_tickets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE support_messages (
		id TEXT PRIMARY KEY,
		ticket_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		body TEXT NOT NULL,
		attachment_path TEXT,
		created_at DATETIME
	);`)
}

func createLegalTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE legal_agreements (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		body TEXT NOT NULL,
		published_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_agreement_signatures (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		agreement_id TEXT NOT NULL,
		version_signed INTEGER NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		signed_at DATETIME NOT NULL,
		UNIQUE(user_id, agreement_id)
	);`)
}
