// Package notify delivers engine notifications to external observers.
//
// The engine emits through a single Sink. Sinks here cover tests (Recorder),
// logs (Log), a NATS subject tree (Publisher) and browser clients over
// websocket (Hub); Multi fans one emission out to several of them.
//
// Emit never returns an error: a failing observer must not abort ingestion.
// Sinks log their own delivery failures.
package notify
