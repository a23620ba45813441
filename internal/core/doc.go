// Package core builds the cube's Card List.
//
// The package holds the domain logic independent of any UI or storage
// backend. It works on a [sheet.Workbook] and a [CardSource], so the web
// server, the terminal menu, and tests share the same pipeline.
//
// # Pipeline
//
// An update run goes through these steps in order:
//
//  1. Read the Column List and index its header ([NewColumnSpec]).
//  2. Compile the tag patterns listed under each tag column ([ColumnSpec.TagRules]).
//  3. Read the Change Log and keep the names whose count is 1 ([ActiveSet]).
//  4. Fetch each card by exact name and derive its row ([Transform]).
//  5. Lay the rows out under the Column List header ([WriteAll]) and order
//     them by (Sort, Name) ([SortTable]).
//  6. Replace the Card List with the result.
//
// Fetches are sequential. Nothing is written until every row is built, so a
// failure leaves the Card List as it was.
//
// # Sort Key
//
// Each row gets an integer key from its section, guild color pair, type and
// mana cost. See [SortKey] for the encoding.
//
// # Runs
//
// [Service.UpdateCardList] and [Service.SortCardList] hold a single-slot
// [RunLimiter], so at most one run writes the Card List at a time. Every
// finished run is stored as a [RunRecord] in a [RunHistory].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CFG001-CFG002: Column List and sheet configuration
//   - LOG001: Change Log counts
//   - PAT001: Tag patterns
//   - CARD001-CARD002: Card lookups
//   - RUN001-RUN003: Run control (busy, cancelled, timed out)
package core
