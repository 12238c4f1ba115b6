package postgres

import "github.com/etnz/moneymanager"

// schema creates the tables if they do not exist. Dates are stored as
// "YYYY-MM-DD" text so that days not on the calendar are kept as entered.
const schema = `
CREATE TABLE IF NOT EXISTS account_summary (
	name         TEXT PRIMARY KEY,
	debit_total  NUMERIC NOT NULL DEFAULT 0,
	credit_total NUMERIC NOT NULL DEFAULT 0,
	net_total    NUMERIC NOT NULL DEFAULT 0,
	balance      NUMERIC NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS debit_log (
	seq      BIGSERIAL PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	amount   NUMERIC NOT NULL,
	date     VARCHAR(10) NOT NULL,
	category TEXT NOT NULL,
	note     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS credit_log (
	seq      BIGSERIAL PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	amount   NUMERIC NOT NULL,
	date     VARCHAR(10) NOT NULL,
	category TEXT NOT NULL,
	note     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transfer_log (
	seq      BIGSERIAL PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	amount   NUMERIC NOT NULL,
	date     VARCHAR(10) NOT NULL,
	category TEXT NOT NULL,
	note     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS statement_log (
	seq      BIGSERIAL PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	date     VARCHAR(10) NOT NULL,
	amount   NUMERIC NOT NULL,
	kind     VARCHAR(11) NOT NULL,
	category TEXT NOT NULL,
	note     TEXT NOT NULL
);
`

// logTables maps a kind to its log table.
var logTables = map[moneymanager.Kind]string{
	moneymanager.Debit:    "debit_log",
	moneymanager.Credit:   "credit_log",
	moneymanager.Transfer: "transfer_log",
}

// allTables lists every table, summary last.
var allTables = []string{"debit_log", "credit_log", "transfer_log", "statement_log", "account_summary"}
