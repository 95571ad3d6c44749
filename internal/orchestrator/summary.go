package orchestrator

// ArchiveError records one archive's fatal failure, isolated from its
// siblings (spec §4.10 "an archive failure logs the archive name and
// error, does NOT abort sibling workers").
type ArchiveError struct {
	Path string
	Err  error
}

func (e ArchiveError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Summary tallies one ingest run across every dispatched archive,
// generalizing the teacher's ChartManagerStats (pkg/s57/manager.go)
// from a chart cache's hit rate to a batch ingest's success rate.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Errors    []ArchiveError
}

// SuccessRate returns the fraction of attempted (non-skipped) archives
// that loaded without a fatal error, 0 when none were attempted.
func (s Summary) SuccessRate() float64 {
	attempted := s.Processed + s.Failed
	if attempted == 0 {
		return 0
	}
	return float64(s.Processed) / float64(attempted)
}
