// Package analyzer holds what every project-wide analysis shares: the
// analyzer contract and progress reporting through the context.
package analyzer

import "context"

// FileAnalyzer analyzes a set of files as one project. Implementations must
// honor ctx cancellation and report per-file progress to the Tracker carried
// by ctx, if any.
type FileAnalyzer[T any] interface {
	Analyze(ctx context.Context, files []string) (T, error)
	Close()
}
