package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
)

// ReportExt is the extension every stored report carries.
const ReportExt = ".pdf"

// ReportStore keeps rendered PDFs as flat files in the report directory.
type ReportStore struct {
	blobs  *FileBlobStore
	logger *common.Logger
}

// NewReportStore opens (creating if needed) the report directory.
func NewReportStore(logger *common.Logger, dir string) (*ReportStore, error) {
	blobs, err := NewFileBlobStore(logger, dir)
	if err != nil {
		return nil, err
	}
	return &ReportStore{blobs: blobs, logger: logger}, nil
}

// ValidateReportName accepts bare file names ending in .pdf.
func ValidateReportName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ReportExt) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	return nil
}

// Save writes a report
func (s *ReportStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateReportName(name); err != nil {
		return err
	}
	return s.blobs.Put(ctx, name, data)
}

// Open returns a reader for a stored report
func (s *ReportStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateReportName(name); err != nil {
		return nil, err
	}
	return s.blobs.GetReader(ctx, name)
}

// Exists checks if a report has been written
func (s *ReportStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ValidateReportName(name); err != nil {
		return false, err
	}
	return s.blobs.Exists(ctx, name)
}

// List returns stored report names, newest first
func (s *ReportStore) List(ctx context.Context) ([]string, error) {
	blobs, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, err
	}

	sort.SliceStable(blobs, func(i, j int) bool {
		return blobs[i].LastModified.After(blobs[j].LastModified)
	})

	names := make([]string, 0, len(blobs))
	for _, b := range blobs {
		if ValidateReportName(b.Key) == nil {
			names = append(names, b.Key)
		}
	}
	return names, nil
}

// Location returns the filesystem path of a report
func (s *ReportStore) Location(name string) string {
	path, err := s.blobs.Path(name)
	if err != nil {
		return name
	}
	return path
}

// Ensure ReportStore implements interfaces.ReportStore
var _ interfaces.ReportStore = (*ReportStore)(nil)
