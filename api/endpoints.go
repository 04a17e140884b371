package api

import (
	"fmt"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

const (
	PathOwner             = "/api/owner"
	PathNetworkInfo       = "/api/network-info"
	PathAllProjects       = "/api/all-projects"
	PathProjectPrefix     = "/api/project/"
	PathSubmitProject     = "/api/submit-project"
	PathExplorerContracts = "/api/explorer/contracts"
	PathExplorerStats     = "/api/explorer/stats"
	PathExplorerRecords   = "/api/explorer/records"
)

// ProjectPath returns the path of a single project.
func ProjectPath(id interfaces.ProjectID) string {
	return fmt.Sprintf("%s%d", PathProjectPrefix, id)
}

// ActionPath returns the POST endpoint of an action. Every action is served
// at /api/<action name>.
func ActionPath(action interfaces.Action) string {
	return "/api/" + string(action)
}
