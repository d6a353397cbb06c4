package metrics

import "time"

// bucketSize is the aggregation granularity. Summaries are exact over whole
// buckets; a range is widened to bucket boundaries.
const bucketSize = time.Minute

// bucketStats are the running sums for one dealership × time bucket.
// Exact counters, no sampling.
type bucketStats struct {
	interactions  int64
	escalations   int64
	degraded      int64
	confidenceSum float64 // over non-degraded decisions only
	confidenceN   int64
	latencySumMs  int64
	byAgent       map[string]int64
}

type bucketKey struct {
	dealershipID int
	bucket       int64 // unix seconds of bucket start
}
