// Package evidmap provides an evidence workbench for analysts: it ingests
// documents (articles, podcast transcripts), lets analysts carve them into
// evidence segments, and matches segments against testable hypotheses with
// LLM assistance.
//
// This package contains domain types, interfaces, and pure domain logic,
// most notably the offset mapper: it reconciles a reader's plain-text
// selection with the exact byte range in the original HTML markup.
// Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, gemini/, goquery/), following Ben Johnson's
// Standard Package Layout.
package evidmap
