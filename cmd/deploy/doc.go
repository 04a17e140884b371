// Package main (cmd/deploy) deploys the MRV contract suite and records where
// it lives.
//
// Commands:
//
//	run   - deploy token, registry and verification manager, grant the
//	        minter role and persist descriptors plus addresses.json (default)
//	show  - print addresses.json from the output location
//
// The signer is --private-key / PRIVATE_KEY, either a hex key or a Vault
// reference such as vault://secret/data/mrv/deployer#private_key. Outputs
// go to every --output location (file path, file://, s3:// or ipfs://).
package main
