// Package journal decodes game journal lines into typed events.
//
// Every journal line is a JSON object with an "event" discriminant and a
// "timestamp". Decode maps the discriminant to one concrete Go type per kind;
// lines with an unrecognised discriminant decode to Unknown so callers can
// skip them without failing.
package journal
