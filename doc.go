// Package moneymanager is the core of a single-user personal finance tracker.
//
// It records debit (expense), credit (income) and transfer transactions
// against one account, and maintains a running summary of it: debit total,
// credit total, net total and balance.
//
// The summary is denormalized: every transaction both updates it and appends
// to append-only logs, one per kind plus a unified statement log. The Ledger
// is the only writer and keeps both consistent:
//   - Amounts are exact decimals, never floats.
//   - Balance and net total are always credit total minus debit total.
//   - Transfers are logged but never change the summary.
//   - Stores able to commit atomically (Committer) apply summary and logs in a
//     single transaction. Other stores write the logs first, and Reconcile
//     replays them to repair the summary after a crash.
//
// Persistence is abstracted by the Store interface. This package provides an
// in-memory store and a directory of human-readable JSONL files; the postgres
// and mysql packages provide SQL stores.
package moneymanager
