// Package httpapi exposes document wizards over a JSON HTTP API.
//
// A client lists the catalog, opens a session on a document and then drives
// the wizard step by step:
//
//	POST /documents/{id}/sessions      create a session
//	GET  /sessions/{sid}               current step view and answers
//	POST /sessions/{sid}/answers       commit values for the current step
//	POST /sessions/{sid}/next          validate and advance
//	POST /sessions/{sid}/back          return to the previous step
//	POST /sessions/{sid}/mode          choose manual or OCR entry
//	POST /sessions/{sid}/groups/add    add a repeated element
//	POST /sessions/{sid}/attachments   attach files to an OCR element
//
// Sessions live in memory and expire after an idle period or a maximum age.
// Errors are reported as {"error": ..., "code": ...}.
package httpapi
