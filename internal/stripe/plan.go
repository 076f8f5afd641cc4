package stripe

// Plan describes how a source file is cut into stripes.
type Plan struct {
	FileSize    int64
	StripeSize  int64
	StripeCount int
	// NameWidth is the digit count of the largest index, used for zero padding.
	NameWidth int
}

// NewPlan lays out fileSize bytes in stripes of stripeSize bytes. There is always at least one stripe.
func NewPlan(fileSize, stripeSize int64) (Plan, error) {
	if err := CheckSize(stripeSize); err != nil {
		return Plan{}, err
	}
	count := fileSize / stripeSize
	if fileSize%stripeSize > 0 {
		count++
	}
	if count < 1 {
		count = 1
	}
	return Plan{
		FileSize:    fileSize,
		StripeSize:  stripeSize,
		StripeCount: int(count),
		NameWidth:   Digits(int(count) - 1),
	}, nil
}

// Split divides the plan's stripes across at most workers ranges.
func (p Plan) Split(workers int) []WorkRange {
	return Split(p.StripeCount, workers, p.StripeSize)
}

// WorkRange is the contiguous block of stripe indices [Start, End) owned by one worker.
type WorkRange struct {
	Start  int
	End    int
	Offset int64 // Start * stripe size
}

func (r WorkRange) Len() int { return r.End - r.Start }

// Split divides [0, count) into workers groups as evenly as possible; the first count%workers groups
// get one extra index and empty groups are dropped.
func Split(count, workers int, stripeSize int64) []WorkRange {
	if count <= 0 || workers <= 0 {
		return nil
	}
	base, rem := count/workers, count%workers
	ranges := make([]WorkRange, 0, min(count, workers))
	start := 0
	for i := 0; i < workers; i++ {
		n := base
		if i < rem {
			n++
		}
		if n == 0 {
			continue
		}
		ranges = append(ranges, WorkRange{Start: start, End: start + n, Offset: int64(start) * stripeSize})
		start += n
	}
	return ranges
}

// Digits returns the number of decimal digits in n; zero has none.
func Digits(n int) int {
	d := 0
	for ; n > 0; n /= 10 {
		d++
	}
	return d
}
