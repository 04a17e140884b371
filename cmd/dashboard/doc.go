// Package main (cmd/dashboard) serves the MRV operator dashboard.
//
// The dashboard reads and drives the Registry Service REST API. It exposes
// JSON views (network, owner, project list, project action center, explorer,
// biomass preview) and actions (project submission, lifecycle transitions,
// verifier management). After a confirmed transaction the selected project
// and the project list are reloaded once the refresh delay has elapsed.
//
// Usage:
//
//	dashboard --listen-addr 127.0.0.1:8080 --registry-api http://127.0.0.1:5000
//
// Variables from a .env file in the working directory are loaded first and
// may supply REGISTRY_API_URL, REGISTRY_API_TIMEOUT and REFRESH_DELAY.
package main
