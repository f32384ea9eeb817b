// Package audit records authorization decisions for later inspection.
//
// Each evaluation produces one Record correlating the decision with the
// rule that made it and the snapshot generation it was made against. Two
// storage backends are provided: a bounded in-memory buffer for
// development and tests, and SQLite for durable audit trails. Recording
// failures are logged and never propagate into the authorization path.
package audit
