package gitrepo

import "time"

// CommitInfo describes a single commit on the tracked revision.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Locations is the pure value returned by a resolve operation: the
// resolved revision and the ordered filesystem search paths computed
// for it.
type Locations struct {
	Application string   `json:"application"`
	Profile     string   `json:"profile"`
	Label       string   `json:"label"`
	Version     string   `json:"version"`
	SearchPaths []string `json:"searchPaths"`
}

// FetchResult is what a fetch operation reports back to the caller:
// whether the remote moved, and which branch refs were added, updated
// or deleted on refs/remotes/origin/*.
type FetchResult struct {
	Updated            bool
	TrackingRefUpdates []TrackingRefUpdate
}

// TrackingRefUpdate describes how a single refs/remotes/origin/<name>
// ref changed as a result of a fetch.
type TrackingRefUpdate struct {
	LocalRef string
	Type     RefUpdateType
}

// RefUpdateType enumerates the kinds of ref update a fetch can produce.
type RefUpdateType int

const (
	RefUpdateAdd RefUpdateType = iota
	RefUpdateUpdate
	RefUpdateDelete
)

// RepositoryMetrics tracks git operation timings for the owning
// repository; Repository.Metrics returns a copy of it.
type RepositoryMetrics struct {
	CloneDuration   time.Duration
	LastPullTime    time.Time
	FailedPulls     int64
	SuccessfulPulls int64
	LastCommitSHA   string
}

// syncState is the mutable, process-scoped state owned exclusively by a
// Repository and mutated only while its mutex is held.
type syncState struct {
	lastRefreshMs   int64
	localBaseExists bool
	initialized     bool
}
