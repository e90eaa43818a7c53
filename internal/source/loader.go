package source

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/fcast/internal/model"
)

// LoadedAssumptions is one assumptions file decoded from a directory.
type LoadedAssumptions struct {
	Path        string
	Assumptions model.Assumptions
}

// FileError records a file that could not be decoded.
type FileError struct {
	Path string
	Err  error
}

// DirResult holds everything decoded from an inputs directory.
type DirResult struct {
	Assumptions []LoadedAssumptions
	// Actuals keeps file order, then entry order within each file.
	Actuals     []model.ActualPeriodEntry
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	Failures    []FileError
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

type fileResult struct {
	assumptions model.Assumptions
	actuals     ActualsResult
	err         error
}

// LoadDir discovers and decodes every input file under dir.
// It uses a bounded worker pool for parallel decoding.
func LoadDir(dir string, progressFn ProgressFunc) (*DirResult, error) {
	files, err := ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &DirResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]fileResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = decodeFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	// Collect in scan order so actuals keep a deterministic last-wins order.
	for i, fr := range results {
		f := files[i]
		if fr.err != nil {
			result.Failures = append(result.Failures, FileError{Path: f.Path, Err: fr.err})
			continue
		}
		result.ParsedFiles++
		if f.Kind == KindAssumptions {
			result.Assumptions = append(result.Assumptions, LoadedAssumptions{Path: f.Path, Assumptions: fr.assumptions})
			continue
		}
		result.ParseErrors += fr.actuals.ParseErrors
		result.Actuals = append(result.Actuals, fr.actuals.Entries...)
	}

	return result, nil
}

func decodeFile(f DiscoveredFile) fileResult {
	if f.Kind == KindAssumptions {
		a, err := LoadAssumptions(f.Path)
		return fileResult{assumptions: a, err: err}
	}
	res, err := LoadActuals(f.Path)
	return fileResult{actuals: res, err: err}
}
