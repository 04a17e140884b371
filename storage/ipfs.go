package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	shell "github.com/ipfs/go-ipfs-api"
)

// IPFSBackend stores outputs in a directory of an IPFS node's mutable file
// system (MFS), so they can be pinned and published with the directory CID.
type IPFSBackend struct {
	shell       *shell.Shell
	apiAddr     string
	dir         string
	log         *slog.Logger
	locationURI string
}

// NewIPFSBackend creates a backend writing into dir on the node at host:port.
func NewIPFSBackend(host, port, dir string, log *slog.Logger) (*IPFSBackend, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: missing IPFS host", interfaces.ErrInvalidLocationURI)
	}

	dir = "/" + strings.Trim(dir, "/")
	apiAddr := fmt.Sprintf("%s:%s", host, port)

	return &IPFSBackend{
		shell:       shell.NewShell(apiAddr),
		apiAddr:     apiAddr,
		dir:         dir,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s%s", apiAddr, dir),
	}, nil
}

// Write stores data under name. The content is written to a temporary MFS
// entry first and moved into place.
func (b *IPFSBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if !b.shell.IsUp() {
		return interfaces.ErrBackendUnavailable
	}

	target := path.Join(b.dir, name)
	tmp := path.Join(b.dir, "."+name+".tmp")

	err := b.shell.FilesWrite(ctx, tmp, bytes.NewReader(data),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		return fmt.Errorf("failed to write to IPFS: %w", err)
	}

	// MFS refuses to move onto an existing entry.
	_ = b.shell.FilesRm(ctx, target, true)
	if err := b.shell.FilesMv(ctx, tmp, target); err != nil {
		return fmt.Errorf("failed to move IPFS entry into place: %w", err)
	}

	b.log.Debug("Stored output in IPFS",
		slog.String("path", target),
		slog.Int("size", len(data)))

	return nil
}

// Read returns the MFS entry stored under name or ErrObjectNotFound.
func (b *IPFSBackend) Read(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if !b.shell.IsUp() {
		return nil, interfaces.ErrBackendUnavailable
	}

	target := path.Join(b.dir, name)
	reader, err := b.shell.FilesRead(ctx, target)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, target)
		}
		return nil, fmt.Errorf("failed to read from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from IPFS: %w", err)
	}
	return data, nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s", b.apiAddr)
}

// LocationURI returns the URI that identifies this backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}
