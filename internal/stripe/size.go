package stripe

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourorg/zebra/internal/errs"
)

const (
	// MinStripeSize is the smallest stripe size accepted for planning.
	MinStripeSize int64 = 4000
	// DefaultStripeSize applies when neither a size nor a part count is given.
	DefaultStripeSize int64 = 3_000_000
)

// Decimal multipliers, not binary.
var suffixes = map[string]int64{
	"b":  1,
	"kb": 1_000,
	"mb": 1_000_000,
	"gb": 1_000_000_000,
}

// ParseSize converts "30mb", "55.35mb" or "100000" into a byte count.
func ParseSize(text string) (int64, error) {
	i := 0
	for i < len(text) && (isDigit(text[i]) || text[i] == '.') {
		i++
	}
	num, suffix := text[:i], text[i:]
	if num == "" || strings.Count(num, ".") > 1 || !isAlpha(suffix) {
		return 0, fmt.Errorf("%w: %q", errs.ErrBadSize, text)
	}
	unit := int64(1)
	if suffix != "" {
		m, ok := suffixes[strings.ToLower(suffix)]
		if !ok {
			return 0, fmt.Errorf("%w: %s", errs.ErrBadSuffix, strings.ToLower(suffix))
		}
		unit = m
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errs.ErrBadSize, text)
	}
	bytes := math.Round(v * float64(unit))
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", errs.ErrBadSize, text)
	}
	return int64(bytes), nil
}

// ParseParts accepts an all-digit, non-zero part count.
func ParseParts(text string) (int, error) {
	if text == "" || !allDigits(text) {
		return 0, fmt.Errorf("%w: %q", errs.ErrBadParts, text)
	}
	p, err := strconv.Atoi(text)
	if err != nil || p == 0 {
		return 0, fmt.Errorf("%w: %q", errs.ErrBadParts, text)
	}
	return p, nil
}

// SizeFromParts is ceil(fileSize / parts).
func SizeFromParts(fileSize int64, parts int) int64 {
	p := int64(parts)
	size := fileSize / p
	if fileSize%p > 0 {
		size++
	}
	return size
}

// CheckSize rejects stripe sizes below MinStripeSize.
func CheckSize(size int64) error {
	if size < MinStripeSize {
		return fmt.Errorf("%w: %d bytes, minimum is %d", errs.ErrStripeTooSmall, size, MinStripeSize)
	}
	return nil
}

// CheckWorkers rejects worker counts below one.
func CheckWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", errs.ErrZeroThreads, n)
	}
	return nil
}

// Sizer resolves the stripe size once the source size is known.
type Sizer interface {
	StripeSize(fileSize int64) int64
}

// FixedSize is a stripe size given directly.
type FixedSize int64

func (s FixedSize) StripeSize(int64) int64 { return int64(s) }

// Parts derives the stripe size from a target part count.
type Parts int

func (p Parts) StripeSize(fileSize int64) int64 { return SizeFromParts(fileSize, int(p)) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
