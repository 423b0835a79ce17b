// Package accounting implements a personal double-entry ledger. Money moves
// between hierarchical accounts; every movement is an item of a dated
// transaction, and reports aggregate items over date ranges.
//
// The core functionalities include:
//   - Account Management: A forest of typed accounts (Profit, Expense,
//     Asset, Liability) addressed by hierarchical paths, with untyped
//     accounts inheriting the type of their nearest typed ancestor.
//   - Transactions and Items: Date-ordered transactions owning signed
//     postings, each posting booked on at most one account. A balanced
//     transaction distributes its value fully among accounts.
//   - Filtering: Composable predicates over items and transactions (by date,
//     value, description or account scope) with an And/Or algebra.
//   - Reporting: Monthly datasets per selected account, per nested account
//     or per account type, ready to be rendered or charted.
//   - Persistence: A versioned XML document stored in a zip archive keeping
//     the most recent revisions as backups.
//   - Import: Booking bank statement entries from tab separated or JSON
//     exports.
//
// This package serves as the foundational logic for the `acc` command-line
// tool.
package accounting
