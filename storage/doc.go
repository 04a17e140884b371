// Package storage persists named deployment outputs (the address map and the
// contract interface descriptors) to pluggable backends.
//
// Backends are selected by location URI:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/mrv/deployed or a bare path such as ./deployed
//   - s3://bucket-name/prefix/?region=us-west-2&endpoint=minio.local:9000
//   - ipfs://127.0.0.1:5001/mrv/deployed (a directory in the node's MFS)
//
// Every backend replaces objects atomically: a reader sees either the
// previous content or the complete new content, never a prefix of it. The
// file backend writes to a temporary file and renames it into place, the
// IPFS backend does the same inside MFS and S3 objects are atomic by nature.
//
// # Multiple Locations
//
// Several locations can be combined with the factory's CreateMultiBackend.
// Writes go to every backend and fail if any of them fails; reads are served
// by the first backend holding the object.
//
// # Usage
//
//	factory := storage.NewOutputBackendFactory(logger)
//	loc, _ := interfaces.NewOutputLocation("./deployed")
//	backend, err := factory.BackendFor(loc)
//	err = backend.Write(ctx, "addresses.json", data)
package storage
