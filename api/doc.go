/*
Package api defines the wire contract between the dashboard client and the
Registry Service.

The Registry Service proxies the on-chain MRV registry over plain JSON/HTTP.
Every response is an envelope:

	{"success": true, ...payload}
	{"success": false, "error": "message"}

Clients branch solely on the success flag. The HTTP status code is ignored
whenever a JSON envelope is present, and a body that is not a JSON envelope is
treated as a transport failure.

# Endpoints

Reads:

  - GET /api/owner
  - GET /api/network-info
  - GET /api/all-projects
  - GET /api/project/{id}
  - GET /api/explorer/contracts
  - GET /api/explorer/stats
  - GET /api/explorer/records

Writes (each submits exactly one transaction):

  - POST /api/submit-project {avg_ndvi, area_ha, images}
  - POST /api/under-review {project_id}
  - POST /api/approve {project_id, tons}
  - POST /api/reject {project_id}
  - POST /api/issue-credits {project_id, recipient}
  - POST /api/add-verifier {address}
  - POST /api/remove-verifier {address}

See the clients subpackage for the HTTP client implementing
interfaces.RegistryAPI.
*/
package api
