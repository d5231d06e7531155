// Package query answers size questions over a reconstructed filesystem.
package query

import (
	"errors"
	"fmt"

	"github.com/temirov/termfs/internal/filesystem"
)

var (
	// ErrNegativeSize indicates a size that violates the non-negative invariant.
	ErrNegativeSize = errors.New("negative size")
	// ErrNegativeThreshold indicates a negative query bound.
	ErrNegativeThreshold = errors.New("negative threshold")
	// ErrCapacityExceeded indicates that the used space is larger than the device capacity.
	ErrCapacityExceeded = errors.New("used space exceeds capacity")
)

const (
	errorNegativeSizeFormat      = "directory %q: %w"
	errorNegativeThresholdFormat = "%w: %d"
	errorCapacityExceededFormat  = "%w: used %d, capacity %d"
)

// DirectoryReport is the name, location and aggregated size of one directory.
type DirectoryReport struct {
	Name string
	Path string
	Size int64
}

// FindDirectoriesAtMostSize returns every directory, root included, whose aggregated size
// is at most threshold. Results are in pre-order with children in insertion order.
func FindDirectoriesAtMostSize(fs *filesystem.Filesystem, threshold int64) ([]DirectoryReport, error) {
	if threshold < 0 {
		return nil, fmt.Errorf(errorNegativeThresholdFormat, ErrNegativeThreshold, threshold)
	}
	var reports []DirectoryReport
	collectError := collect(fs, func(report DirectoryReport) {
		if report.Size <= threshold {
			reports = append(reports, report)
		}
	})
	if collectError != nil {
		return nil, collectError
	}
	return reports, nil
}

// SumSizes adds up the sizes of the given directories.
func SumSizes(directories []DirectoryReport) (int64, error) {
	var total int64
	for _, directory := range directories {
		if directory.Size < 0 {
			return 0, fmt.Errorf(errorNegativeSizeFormat, directory.Name, ErrNegativeSize)
		}
		total += directory.Size
	}
	return total, nil
}

// FindSmallestDirectoryAtLeastSize returns the smallest directory whose aggregated size
// is at least minimum. Ties keep the first directory in pre-order. The boolean is false
// when no directory qualifies.
func FindSmallestDirectoryAtLeastSize(fs *filesystem.Filesystem, minimum int64) (DirectoryReport, bool, error) {
	if minimum < 0 {
		return DirectoryReport{}, false, fmt.Errorf(errorNegativeThresholdFormat, ErrNegativeThreshold, minimum)
	}
	var smallest DirectoryReport
	found := false
	collectError := collect(fs, func(report DirectoryReport) {
		if report.Size < minimum {
			return
		}
		if !found || report.Size < smallest.Size {
			smallest = report
			found = true
		}
	})
	if collectError != nil {
		return DirectoryReport{}, false, collectError
	}
	return smallest, found, nil
}

// SpaceToFree returns how many bytes must be deleted so that required bytes are unused
// on a device of the given capacity. It is zero when enough space is already free.
func SpaceToFree(fs *filesystem.Filesystem, capacity int64, required int64) (int64, error) {
	if capacity < 0 {
		return 0, fmt.Errorf(errorNegativeThresholdFormat, ErrNegativeThreshold, capacity)
	}
	if required < 0 {
		return 0, fmt.Errorf(errorNegativeThresholdFormat, ErrNegativeThreshold, required)
	}
	used := fs.TotalSize()
	if used > capacity {
		return 0, fmt.Errorf(errorCapacityExceededFormat, ErrCapacityExceeded, used, capacity)
	}
	needed := required - (capacity - used)
	if needed < 0 {
		return 0, nil
	}
	return needed, nil
}

func collect(fs *filesystem.Filesystem, accept func(report DirectoryReport)) error {
	sizes := filesystem.Sizes(fs.Root())
	return fs.Walk(func(directory *filesystem.DirectoryNode) error {
		size := sizes[directory]
		if size < 0 {
			return fmt.Errorf(errorNegativeSizeFormat, directory.Path(), ErrNegativeSize)
		}
		accept(DirectoryReport{Name: directory.Name(), Path: directory.Path(), Size: size})
		return nil
	})
}
