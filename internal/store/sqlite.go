package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/models"
)

// Detail sub-indicator values, kept as the legacy schema encodes them.
const (
	subIndBuy  = "1"
	subIndSell = "2"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Policy-change transactions appointments attach to
	CREATE TABLE IF NOT EXISTS transactions (
		receive_no TEXT PRIMARY KEY,
		policy_no TEXT NOT NULL,
		receive_date TEXT NOT NULL,
		change_code TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '2',
		owner_user TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_policy ON transactions(policy_no, receive_no);

	CREATE TABLE IF NOT EXISTS policies (
		policy_no TEXT PRIMARY KEY,
		status_code TEXT NOT NULL,
		currency TEXT NOT NULL,
		basic_plan_code TEXT NOT NULL,
		insurance_type TEXT NOT NULL,
		rate_scale TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS policy_clients (
		policy_no TEXT NOT NULL,
		ident TEXT NOT NULL, -- 'O1' owner, 'I1' insured
		client_id TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (policy_no, ident)
	);

	CREATE TABLE IF NOT EXISTS plans (
		plan_code TEXT NOT NULL,
		rate_scale TEXT NOT NULL,
		min_part_wd_amt TEXT NOT NULL DEFAULT '0',
		invs_avail_type TEXT,
		assign_flags TEXT,
		change_flags TEXT,
		PRIMARY KEY (plan_code, rate_scale)
	);

	CREATE TABLE IF NOT EXISTS investments (
		code TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		status_code TEXT NOT NULL DEFAULT '0',
		currency TEXT,
		risk_degree TEXT NOT NULL DEFAULT '1',
		shutting_date TEXT -- canonical date after which buying stops
	);

	-- Units the policy holds per investment
	CREATE TABLE IF NOT EXISTS holdings (
		policy_no TEXT NOT NULL,
		invest_code TEXT NOT NULL,
		units REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (policy_no, invest_code)
	);

	CREATE TABLE IF NOT EXISTS client_risk (
		client_id TEXT PRIMARY KEY,
		max_risk_degree TEXT NOT NULL
	);

	-- Appointment headers
	CREATE TABLE IF NOT EXISTS appointments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		policy_no TEXT NOT NULL,
		receive_no TEXT NOT NULL,
		direction TEXT NOT NULL,
		frequency INTEGER NOT NULL,
		begin_date TEXT NOT NULL,
		next_date TEXT,
		currency TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT ' ',
		proc_user TEXT,
		proc_date TEXT,
		proc_time TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_appointments_policy ON appointments(policy_no, status);
	CREATE INDEX IF NOT EXISTS idx_appointments_receive ON appointments(receive_no);

	-- Appointment details: one row per sell or buy allocation
	CREATE TABLE IF NOT EXISTS appointment_details (
		seq INTEGER NOT NULL,
		sub_ind TEXT NOT NULL, -- '1' buy, '2' sell
		invest_code TEXT NOT NULL,
		sell_mode TEXT NOT NULL DEFAULT '0',
		amount TEXT NOT NULL DEFAULT '0',
		percent INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (seq) REFERENCES appointments(seq)
	);
	CREATE INDEX IF NOT EXISTS idx_details_seq ON appointment_details(seq);
	CREATE INDEX IF NOT EXISTS idx_details_code ON appointment_details(invest_code, sub_ind);

	-- Remittance data of withdrawal appointments
	CREATE TABLE IF NOT EXISTS appointment_payments (
		seq INTEGER PRIMARY KEY,
		policy_no TEXT NOT NULL,
		receive_no TEXT NOT NULL,
		channel TEXT NOT NULL,
		bank TEXT, branch TEXT, account TEXT,
		payee TEXT, payee_en TEXT, payee_id TEXT,
		swift_code TEXT, bank_name_en TEXT,
		FOREIGN KEY (seq) REFERENCES appointments(seq)
	);

	-- Bank directory, keyed by concatenated bank+branch code
	CREATE TABLE IF NOT EXISTS banks (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		swift_code TEXT,
		name_en TEXT,
		requires_payee_en INTEGER NOT NULL DEFAULT 0
	);

	-- Client disbursement accounts per channel
	CREATE TABLE IF NOT EXISTS client_accounts (
		client_id TEXT NOT NULL,
		channel TEXT NOT NULL,
		currency TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS remit_accounts (
		bank TEXT NOT NULL, branch TEXT NOT NULL, account TEXT NOT NULL,
		PRIMARY KEY (bank, branch, account)
	);

	CREATE TABLE IF NOT EXISTS foreign_accounts (
		acct_type TEXT NOT NULL, swift_code TEXT NOT NULL, account TEXT NOT NULL,
		PRIMARY KEY (acct_type, swift_code, account)
	);

	CREATE TABLE IF NOT EXISTS authorizations (
		receive_no TEXT NOT NULL,
		auth_code TEXT NOT NULL,
		level INTEGER NOT NULL DEFAULT 0
	);

	-- Scheduled-processing log; a row means the appointment already ran
	CREATE TABLE IF NOT EXISTS schedule_log (
		seq INTEGER NOT NULL,
		run_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS print_records (
		receive_no TEXT NOT NULL,
		line_seq INTEGER NOT NULL,
		item TEXT NOT NULL,
		comment TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_print_receive ON print_records(receive_no, line_seq);

	CREATE TABLE IF NOT EXISTS policy_letters (
		policy_no TEXT NOT NULL,
		receive_no TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- TransactionDirectory ---

// FindLatestMatchingTransaction returns the newest pending conversion or
// withdrawal transaction of the policy.
func (s *SQLiteStore) FindLatestMatchingTransaction(ctx context.Context, policyNo string) (*models.TransactionRef, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT receive_no, receive_date, change_code
		FROM transactions
		WHERE policy_no = ? AND status = '2' AND change_code IN (?, ?)
		ORDER BY receive_no DESC LIMIT 1`,
		policyNo, models.ChangeCodeConversion, models.ChangeCodeWithdrawal)

	var ref models.TransactionRef
	if err := row.Scan(&ref.ReceiveNo, &ref.ReceiveDate, &ref.ChangeCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewLookupError("transaction", policyNo, nil)
		}
		return nil, apperr.Wrap(err, "find latest transaction")
	}
	return &ref, nil
}

func (s *SQLiteStore) UpdateTransactionStatus(ctx context.Context, receiveNo, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE receive_no = ?`, status, receiveNo)
	return apperr.Wrap(err, "update transaction status")
}

func (s *SQLiteStore) IsOwner(ctx context.Context, receiveNo, userID string) (bool, error) {
	var owner sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_user FROM transactions WHERE receive_no = ?`, receiveNo).Scan(&owner)
	if err == sql.ErrNoRows {
		return false, apperr.NewLookupError("transaction", receiveNo, nil)
	}
	if err != nil {
		return false, apperr.Wrap(err, "owner check")
	}
	// Unassigned transactions are claimable by anyone.
	return !owner.Valid || owner.String == "" || owner.String == userID, nil
}

func (s *SQLiteStore) CheckAuthorization(ctx context.Context, receiveNo, authCode string, level int) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM authorizations
		WHERE receive_no = ? AND auth_code = ? AND level >= ?`,
		receiveNo, authCode, level).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "authorization check")
	}
	return n > 0, nil
}

// --- PolicyDirectory ---

func (s *SQLiteStore) GetPolicy(ctx context.Context, policyNo string) (*models.Policy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT policy_no, status_code, currency, basic_plan_code, insurance_type, rate_scale
		FROM policies WHERE policy_no = ?`, policyNo)

	var p models.Policy
	if err := row.Scan(&p.PolicyNo, &p.StatusCode, &p.Currency, &p.BasicPlanCode, &p.InsuranceType, &p.RateScale); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewLookupError("policy", policyNo, nil)
		}
		return nil, apperr.Wrap(err, "get policy")
	}
	return &p, nil
}

func (s *SQLiteStore) GetClient(ctx context.Context, policyNo string) (*models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ident, client_id, name FROM policy_clients WHERE policy_no = ?`, policyNo)
	if err != nil {
		return nil, apperr.Wrap(err, "get client")
	}
	defer rows.Close()

	var c models.Client
	found := false
	for rows.Next() {
		var ident, id, name string
		if err := rows.Scan(&ident, &id, &name); err != nil {
			return nil, apperr.Wrap(err, "get client")
		}
		switch ident {
		case "O1":
			c.OwnerID, c.OwnerName = id, name
			found = true
		case "I1":
			c.InsuredID, c.InsuredName = id, name
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, "get client")
	}
	if !found {
		return nil, apperr.NewLookupError("client", policyNo, nil)
	}
	return &c, nil
}

func (s *SQLiteStore) GetPlan(ctx context.Context, planCode, rateScale string) (*models.Plan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT min_part_wd_amt, COALESCE(invs_avail_type, ''),
		       COALESCE(assign_flags, ''), COALESCE(change_flags, '')
		FROM plans WHERE plan_code = ? AND rate_scale = ?`, planCode, rateScale)

	var p models.Plan
	var minAmt string
	if err := row.Scan(&minAmt, &p.InvsAvailType, &p.AssignFlags, &p.ChangeFlags); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewLookupError("plan", planCode, nil)
		}
		return nil, apperr.Wrap(err, "get plan")
	}
	m, err := decimal.NewFromString(minAmt)
	if err != nil {
		return nil, apperr.Wrapf(err, "plan %s minimum amount %q", planCode, minAmt)
	}
	p.MinPartialWithdrawal = m
	return &p, nil
}

// --- InvestmentDirectory ---

func (s *SQLiteStore) InvestmentExists(ctx context.Context, policyNo, investCode string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM holdings h
		JOIN investments i ON i.code = h.invest_code
		WHERE h.policy_no = ? AND h.invest_code = ? AND h.units != 0 AND i.status_code = '0'`,
		policyNo, investCode).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "investment exists")
	}
	return n > 0, nil
}

func (s *SQLiteStore) InvestmentTitle(ctx context.Context, investCode string) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx,
		`SELECT title FROM investments WHERE code = ?`, investCode).Scan(&title)
	if err == sql.ErrNoRows {
		return "", apperr.NewLookupError("investment", investCode, nil)
	}
	if err != nil {
		return "", apperr.Wrap(err, "investment title")
	}
	return title, nil
}

func (s *SQLiteStore) InvestmentIsShuttingDown(ctx context.Context, investCode, asOfDate string) (bool, error) {
	var shutting sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT shutting_date FROM investments WHERE code = ?`, investCode).Scan(&shutting)
	if err == sql.ErrNoRows {
		return false, apperr.NewLookupError("investment", investCode, nil)
	}
	if err != nil {
		return false, apperr.Wrap(err, "investment shutting check")
	}
	if !shutting.Valid || shutting.String == "" || shutting.String == " " {
		return false, nil
	}
	// Canonical dates compare as strings.
	return asOfDate > shutting.String, nil
}

func (s *SQLiteStore) InvestmentRiskAcceptable(ctx context.Context, clientID, investCode string) (bool, error) {
	var invRisk, maxRisk string
	err := s.db.QueryRowContext(ctx,
		`SELECT risk_degree FROM investments WHERE code = ?`, investCode).Scan(&invRisk)
	if err == sql.ErrNoRows {
		return false, apperr.NewLookupError("investment", investCode, nil)
	}
	if err != nil {
		return false, apperr.Wrap(err, "investment risk")
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT max_risk_degree FROM client_risk WHERE client_id = ?`, clientID).Scan(&maxRisk)
	if err == sql.ErrNoRows {
		// No risk profile on file: accept, matching the legacy default.
		return true, nil
	}
	if err != nil {
		return false, apperr.Wrap(err, "client risk")
	}
	return invRisk <= maxRisk, nil
}

// --- BankDirectory ---

func (s *SQLiteStore) BankLookup(ctx context.Context, bankBranchCode string) (*models.Bank, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, active, COALESCE(swift_code, ''), COALESCE(name_en, ''), requires_payee_en
		FROM banks WHERE code = ?`, bankBranchCode)

	var b models.Bank
	var active, reqEN int
	if err := row.Scan(&b.Code, &b.Name, &active, &b.SwiftCode, &b.NameEN, &reqEN); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewLookupError("bank", bankBranchCode, nil)
		}
		return nil, apperr.Wrap(err, "bank lookup")
	}
	b.Active = active != 0
	b.RequiresPayeeEN = reqEN != 0
	return &b, nil
}

func (s *SQLiteStore) AccountExists(ctx context.Context, channel models.DisbChannel, ownerID, currency string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM client_accounts
		WHERE client_id = ? AND channel = ? AND currency = ? AND active = 1`,
		ownerID, string(channel), currency).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "account exists")
	}
	return n > 0, nil
}

func (s *SQLiteStore) ValidateRemitAccount(ctx context.Context, bank, branch, account string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM remit_accounts WHERE bank = ? AND branch = ? AND account = ?`,
		bank, branch, account).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "remit account check")
	}
	return n > 0, nil
}

func (s *SQLiteStore) ValidateForeignAccount(ctx context.Context, acctType, swiftCode, account string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM foreign_accounts WHERE acct_type = ? AND swift_code = ? AND account = ?`,
		acctType, swiftCode, account).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "foreign account check")
	}
	return n > 0, nil
}

// --- AppointmentStore ---

func criteriaWhere(c Criteria) (string, []interface{}) {
	where := "1=1"
	var args []interface{}
	if c.PolicyNo != "" {
		where += " AND policy_no = ?"
		args = append(args, c.PolicyNo)
	}
	if c.ReceiveNo != "" {
		where += " AND receive_no = ?"
		args = append(args, c.ReceiveNo)
	}
	if c.Direction != "" {
		where += " AND direction = ?"
		args = append(args, string(c.Direction))
	}
	if c.Status != "" {
		where += " AND status = ?"
		args = append(args, c.Status)
	}
	if c.BeginDate != "" {
		where += " AND begin_date = ?"
		args = append(args, c.BeginDate)
	}
	if c.Frequency != nil {
		where += " AND frequency = ?"
		args = append(args, *c.Frequency)
	}
	if c.ActiveOnly {
		where += " AND status = '0'"
	}
	return where, args
}

func (s *SQLiteStore) CountMatching(ctx context.Context, criteria Criteria) (int, error) {
	where, args := criteriaWhere(criteria)
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM appointments WHERE "+where, args...).Scan(&n)
	if err != nil {
		return 0, apperr.Wrap(err, "count appointments")
	}
	return n, nil
}

func (s *SQLiteStore) LoadAppointmentAt(ctx context.Context, criteria Criteria, index int) (*models.Appointment, error) {
	if index < 1 {
		return nil, apperr.NewLookupError("appointment", fmt.Sprintf("position %d", index), nil)
	}
	where, args := criteriaWhere(criteria)
	args = append(args, index-1)
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, policy_no, receive_no, direction, frequency, begin_date,
		       COALESCE(next_date, ''), currency, status,
		       COALESCE(proc_user, ''), COALESCE(proc_date, ''), COALESCE(proc_time, '')
		FROM appointments WHERE `+where+`
		ORDER BY seq DESC LIMIT 1 OFFSET ?`, args...)
	return s.scanAggregate(ctx, row)
}

func (s *SQLiteStore) LoadAppointment(ctx context.Context, policyNo, receiveNo string) (*models.Appointment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, policy_no, receive_no, direction, frequency, begin_date,
		       COALESCE(next_date, ''), currency, status,
		       COALESCE(proc_user, ''), COALESCE(proc_date, ''), COALESCE(proc_time, '')
		FROM appointments WHERE policy_no = ? AND receive_no = ?
		ORDER BY seq DESC LIMIT 1`, policyNo, receiveNo)
	return s.scanAggregate(ctx, row)
}

func (s *SQLiteStore) scanAggregate(ctx context.Context, row *sql.Row) (*models.Appointment, error) {
	var agg models.Appointment
	var direction, status string
	var freq int
	err := row.Scan(&agg.Header.Seq, &agg.Header.PolicyNo, &agg.Header.ReceiveNo,
		&direction, &freq, &agg.Header.BeginDate, &agg.Header.NextDate,
		&agg.Header.Currency, &status,
		&agg.Header.ProcUser, &agg.Header.ProcDate, &agg.Header.ProcTime)
	if err == sql.ErrNoRows {
		return nil, apperr.NewLookupError("appointment", "", nil)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "load appointment")
	}
	agg.Header.Direction = models.Direction(direction)
	agg.Header.Frequency = models.Frequency(freq)
	agg.Header.Status = models.Status(status)

	if err := s.loadDetails(ctx, &agg); err != nil {
		return nil, err
	}
	if agg.Header.Direction == models.DirectionWithdrawal {
		if err := s.loadPayment(ctx, &agg); err != nil {
			return nil, err
		}
	}
	return &agg, nil
}

func (s *SQLiteStore) loadDetails(ctx context.Context, agg *models.Appointment) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sub_ind, invest_code, sell_mode, amount, percent
		FROM appointment_details WHERE seq = ?
		ORDER BY sub_ind DESC, invest_code`, agg.Header.Seq)
	if err != nil {
		return apperr.Wrap(err, "load details")
	}
	defer rows.Close()

	for rows.Next() {
		var subInd, code, mode, amount string
		var percent int
		if err := rows.Scan(&subInd, &code, &mode, &amount, &percent); err != nil {
			return apperr.Wrap(err, "load details")
		}
		switch subInd {
		case subIndSell:
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return apperr.Wrapf(err, "sell amount %q for %s", amount, code)
			}
			agg.Sells = append(agg.Sells, models.SellAllocation{
				InvestCode: code,
				Mode:       models.SellMode(mode),
				Amount:     amt,
			})
		case subIndBuy:
			agg.Buys = append(agg.Buys, models.BuyAllocation{
				InvestCode: code,
				Percent:    percent,
			})
		}
	}
	return apperr.Wrap(rows.Err(), "load details")
}

func (s *SQLiteStore) loadPayment(ctx context.Context, agg *models.Appointment) error {
	row := s.db.QueryRowContext(ctx, `
		SELECT channel, COALESCE(bank,''), COALESCE(branch,''), COALESCE(account,''),
		       COALESCE(payee,''), COALESCE(payee_en,''), COALESCE(payee_id,''),
		       COALESCE(swift_code,''), COALESCE(bank_name_en,'')
		FROM appointment_payments WHERE seq = ?`, agg.Header.Seq)

	var channel string
	err := row.Scan(&channel, &agg.Remit.Bank, &agg.Remit.Branch, &agg.Remit.Account,
		&agg.Remit.Payee, &agg.Remit.PayeeEN, &agg.Remit.PayeeID,
		&agg.Remit.SwiftCode, &agg.Remit.BankNameEN)
	if err == sql.ErrNoRows {
		return nil // withdrawal saved as draft before the remit step completed
	}
	if err != nil {
		return apperr.Wrap(err, "load payment")
	}
	agg.Remit.Channel = models.DisbChannel(channel)
	return nil
}

func (s *SQLiteStore) CrossAppointmentDuplicateSell(ctx context.Context, policyNo, investCode, monthDay, excludingReceiveNo string) (bool, error) {
	// Month/day comparison only: substr(begin_date, 5, 5) is "MM/DD" of the
	// canonical form. Recurring appointments repeat on the same month/day
	// across years, so the year is deliberately ignored.
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments a
		JOIN appointment_details d ON d.seq = a.seq
		WHERE a.policy_no = ?
		  AND substr(a.begin_date, 5, 5) = ?
		  AND a.receive_no != ?
		  AND d.sub_ind = ?
		  AND d.invest_code = ?
		  AND a.status = '0'`,
		policyNo, monthDay, excludingReceiveNo, subIndSell, investCode).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "duplicate sell check")
	}
	return n > 0, nil
}

// CommitAppointment persists the aggregate in one transaction: header insert
// or update, detail delete+reinsert, payment replace. A failure anywhere
// rolls the whole write back.
func (s *SQLiteStore) CommitAppointment(ctx context.Context, agg *models.Appointment, mode models.CommitMode) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
	}
	defer tx.Rollback()

	status := models.StatusPending
	if mode == models.CommitApproved {
		status = models.StatusActive
	}

	seq := agg.Header.Seq
	if seq == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO appointments
				(policy_no, receive_no, direction, frequency, begin_date, next_date,
				 currency, status, proc_user, proc_date, proc_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			agg.Header.PolicyNo, agg.Header.ReceiveNo, string(agg.Header.Direction),
			int(agg.Header.Frequency), agg.Header.BeginDate, agg.Header.NextDate,
			agg.Header.Currency, string(status),
			agg.Header.ProcUser, agg.Header.ProcDate, agg.Header.ProcTime)
		if err != nil {
			return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
		}
		seq, err = res.LastInsertId()
		if err != nil {
			return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			UPDATE appointments SET
				direction = ?, frequency = ?, begin_date = ?, next_date = ?,
				currency = ?, status = ?, proc_user = ?, proc_date = ?, proc_time = ?
			WHERE seq = ?`,
			string(agg.Header.Direction), int(agg.Header.Frequency),
			agg.Header.BeginDate, agg.Header.NextDate, agg.Header.Currency,
			string(status), agg.Header.ProcUser, agg.Header.ProcDate, agg.Header.ProcTime, seq)
		if err != nil {
			return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM appointment_details WHERE seq = ?`, seq); err != nil {
			return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM appointment_payments WHERE seq = ?`, seq); err != nil {
			return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
		}
	}

	if err := insertDetails(ctx, tx, seq, agg); err != nil {
		return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.NewCommitError(agg.Header.PolicyNo, agg.Header.ReceiveNo, err)
	}
	agg.Header.Seq = seq
	agg.Header.Status = status
	return seq, nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, seq int64, agg *models.Appointment) error {
	for _, sell := range agg.Sells {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO appointment_details (seq, sub_ind, invest_code, sell_mode, amount, percent)
			VALUES (?, ?, ?, ?, ?, 0)`,
			seq, subIndSell, sell.InvestCode, string(sell.Mode), sell.Amount.String())
		if err != nil {
			return err
		}
	}
	for _, buy := range agg.Buys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO appointment_details (seq, sub_ind, invest_code, sell_mode, amount, percent)
			VALUES (?, ?, ?, '0', '0', ?)`,
			seq, subIndBuy, buy.InvestCode, buy.Percent)
		if err != nil {
			return err
		}
	}
	if agg.Header.Direction == models.DirectionWithdrawal {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO appointment_payments
				(seq, policy_no, receive_no, channel, bank, branch, account,
				 payee, payee_en, payee_id, swift_code, bank_name_en)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seq, agg.Header.PolicyNo, agg.Header.ReceiveNo, string(agg.Remit.Channel),
			agg.Remit.Bank, agg.Remit.Branch, agg.Remit.Account,
			agg.Remit.Payee, agg.Remit.PayeeEN, agg.Remit.PayeeID,
			agg.Remit.SwiftCode, agg.Remit.BankNameEN)
		if err != nil {
			return err
		}
	}
	return nil
}

// ModifyAppointment rewrites an existing aggregate under its original seq.
func (s *SQLiteStore) ModifyAppointment(ctx context.Context, seq int64, agg *models.Appointment) error {
	agg.Header.Seq = seq
	_, err := s.CommitAppointment(ctx, agg, commitModeFor(agg.Header.Status))
	return err
}

func commitModeFor(status models.Status) models.CommitMode {
	if status == models.StatusActive {
		return models.CommitApproved
	}
	return models.CommitDraft
}

// CancelAppointment marks the appointment cancelled. Detail rows stay for
// history; only the header status changes.
func (s *SQLiteStore) CancelAppointment(ctx context.Context, seq int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE appointments SET status = '1' WHERE seq = ?`, seq)
	if err != nil {
		return apperr.Wrap(err, "cancel appointment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NewLookupError("appointment", fmt.Sprintf("seq %d", seq), nil)
	}
	return nil
}

func (s *SQLiteStore) AppointmentStarted(ctx context.Context, seq int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedule_log WHERE seq = ?`, seq).Scan(&n)
	if err != nil {
		return false, apperr.Wrap(err, "appointment started check")
	}
	return n > 0, nil
}

// --- PrintQueue ---

func (s *SQLiteStore) EnqueuePrintRecord(ctx context.Context, receiveNo string, lines []models.PrintLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(err, "enqueue print record")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM print_records WHERE receive_no = ?`, receiveNo); err != nil {
		return apperr.Wrap(err, "enqueue print record")
	}
	for i, line := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO print_records (receive_no, line_seq, item, comment)
			VALUES (?, ?, ?, ?)`,
			receiveNo, i+1, line.Item, line.Comment); err != nil {
			return apperr.Wrap(err, "enqueue print record")
		}
	}
	return apperr.Wrap(tx.Commit(), "enqueue print record")
}

func (s *SQLiteStore) QueryPrintRecord(ctx context.Context, receiveNo string) ([]models.PrintLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item, comment FROM print_records
		WHERE receive_no = ? ORDER BY line_seq`, receiveNo)
	if err != nil {
		return nil, apperr.Wrap(err, "query print record")
	}
	defer rows.Close()

	var lines []models.PrintLine
	for rows.Next() {
		var l models.PrintLine
		if err := rows.Scan(&l.Item, &l.Comment); err != nil {
			return nil, apperr.Wrap(err, "query print record")
		}
		lines = append(lines, l)
	}
	return lines, apperr.Wrap(rows.Err(), "query print record")
}

func (s *SQLiteStore) InsertPolicyLetter(ctx context.Context, policyNo, receiveNo, kind string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO policy_letters (policy_no, receive_no, kind) VALUES (?, ?, ?)`,
		policyNo, receiveNo, kind)
	return apperr.Wrap(err, "insert policy letter")
}

// PrintDocuments records the print request. Physical printing is outside the
// system; a queued request counts as success.
func (s *SQLiteStore) PrintDocuments(ctx context.Context, policyNo, receiveNo, kind string) (bool, error) {
	if err := s.InsertPolicyLetter(ctx, policyNo, receiveNo, "DOC"+kind); err != nil {
		return false, err
	}
	return true, nil
}
