package interfaces

import "time"

// Project is a submitted carbon-offset claim as reported by the registry.
type Project struct {
	ID           ProjectID
	Submitter    string
	MetadataURI  string
	ClaimedTons  uint64
	ApprovedTons uint64
	Status       Status
	// StatusCode keeps the raw code so unknown states can still be displayed.
	StatusCode  int64
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Survey is a drone survey summary used to submit a project.
type Survey struct {
	AvgNDVI float64  `json:"avg_ndvi"`
	AreaHa  float64  `json:"area_ha"`
	Images  []string `json:"images"`
}

// Submission is the registry's answer to a project submission.
type Submission struct {
	Tx          TxRef
	MetadataURI string
	Biomass     uint64
}

// NetworkInfo describes the chain the Registry Service is connected to.
type NetworkInfo struct {
	Connected bool
	Network   string
	Account   string
}

// ContractSet holds the addresses of the deployed registry contracts.
type ContractSet struct {
	Token               string `json:"token"`
	Registry            string `json:"registry"`
	VerificationManager string `json:"verificationManager"`
}

// RegistryContracts is the explorer's view of the deployment plus the registry owner.
type RegistryContracts struct {
	ContractSet
	Owner string
}

// RegistryStats aggregates tonnage over every registered project.
type RegistryStats struct {
	TotalProjects     uint64
	TotalBiomassTons  uint64
	TotalApprovedTons uint64
}

// Record is one entry of the explorer record feed.
type Record struct {
	Type         string
	ProjectID    ProjectID
	Submitter    string
	ClaimedTons  uint64
	ApprovedTons uint64
	Status       Status
	StatusName   string
	Timestamp    time.Time
}
