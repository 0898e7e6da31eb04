package catalog

// Entry is one deduplicated search result from a single language partition.
type Entry struct {
	ID        string
	Title     string
	Year      int
	Partition string
	PageURL   string
}

// LinkBundle is a fully resolved watch page: the direct media URLs plus the
// metadata needed to derive a destination filename. ProgressiveURL is never
// empty; a bundle without it is not constructed.
type LinkBundle struct {
	Title          string
	Year           string
	ProgressiveURL string
	AdaptiveURL    string
	Premium        bool
	Partition      string
}
