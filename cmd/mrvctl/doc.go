// Package main (cmd/mrvctl) is the operator command line for the MRV
// registry. It talks to the Registry Service REST API, the same backend as
// the dashboard.
//
// Commands:
//
//	owner                          - show the registry owner
//	network                        - show the node connection
//	show <id>                      - show a project and its available actions
//	projects                       - list every project
//	explorer                       - show contracts, totals and records
//	estimate                       - preview biomass and metadata URI locally
//	submit-drone                   - submit a drone survey as a new project
//	under-review <id>              - move a pending project under review
//	approve <id> <tons>            - approve a project under review
//	reject <id>                    - reject a pending or reviewed project
//	issue <id> <recipient>         - mint credits and tokenize an approved project
//	add-verifier <address>         - grant the verifier role
//	remove-verifier <address>      - revoke the verifier role
//
// Commands that change a project wait --refresh-delay and print the project
// as the registry reports it afterwards; --refresh-delay 0 skips this.
//
// Example:
//
//	mrvctl --registry-api http://127.0.0.1:5000 submit-drone --file sample_drone.json
//	mrvctl approve 1 12
package main
