package storage

import "github.com/reputable-tech/memory-bank/internal/models"

// LoadStatus tags the outcome of a single template lookup
type LoadStatus int

const (
	// StatusNotFound means the file does not exist or the slug is not addressable
	StatusNotFound LoadStatus = iota
	// StatusFound means the template was read and parsed
	StatusFound
	// StatusLoadError means the file exists but could not be read or parsed
	StatusLoadError
)

func (s LoadStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusLoadError:
		return "load_error"
	default:
		return "not_found"
	}
}

// LoadResult is the tagged outcome of Repository.Lookup
type LoadResult struct {
	Status   LoadStatus
	Template *models.Template
	Err      error
}

// Found reports whether the lookup produced a template
func (r LoadResult) Found() bool {
	return r.Status == StatusFound && r.Template != nil
}

func found(t *models.Template) LoadResult {
	return LoadResult{Status: StatusFound, Template: t}
}

func notFound() LoadResult {
	return LoadResult{Status: StatusNotFound}
}

func loadError(err error) LoadResult {
	return LoadResult{Status: StatusLoadError, Err: err}
}
