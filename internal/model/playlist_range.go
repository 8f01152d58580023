package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Playlist quantity presets offered by the UI
const (
	QuantityAll             = "All"
	DefaultPlaylistQuantity = "10"
)

// PlaylistQuantities lists the quantity presets in display order
var PlaylistQuantities = []string{"5", "10", "20", "50", QuantityAll}

// ErrInvalidRange is returned for malformed playlist ranges
var ErrInvalidRange = errors.New("invalid playlist range")

// PlaylistRange selects entries of a playlist, 1-based and inclusive
type PlaylistRange struct {
	Start int
	End   int
	All   bool
}

// RangeFromQuantity converts a quantity preset ("5", "10", ..., "All") into a range starting at 1
func RangeFromQuantity(quantity string) (PlaylistRange, error) {
	quantity = strings.TrimSpace(quantity)
	if quantity == "" || strings.EqualFold(quantity, QuantityAll) {
		return PlaylistRange{All: true}, nil
	}
	n, err := strconv.Atoi(quantity)
	if err != nil || n <= 0 {
		return PlaylistRange{}, fmt.Errorf("%w: quantity %q", ErrInvalidRange, quantity)
	}
	return PlaylistRange{Start: 1, End: n}, nil
}

// ResolveRange picks the explicit start/end when both are set and ordered,
// falling back to the quantity preset otherwise
func ResolveRange(start, end int, quantity string) (PlaylistRange, error) {
	if start > 0 && end > 0 && start <= end {
		return PlaylistRange{Start: start, End: end}, nil
	}
	return RangeFromQuantity(quantity)
}

// Validate checks the range bounds
func (r PlaylistRange) Validate() error {
	if r.All {
		return nil
	}
	if r.Start < 1 || r.End < 1 {
		return fmt.Errorf("%w: start and end must be positive", ErrInvalidRange)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Len returns the number of entries the range covers, or -1 for All
func (r PlaylistRange) Len() int {
	if r.All {
		return -1
	}
	if r.Start > r.End {
		return 0
	}
	return r.End - r.Start + 1
}

// Bounds clamps the range to a playlist of size total, returning 0-based [lo, hi)
func (r PlaylistRange) Bounds(total int) (int, int) {
	if r.All || total <= 0 {
		return 0, max(total, 0)
	}
	lo := min(max(r.Start-1, 0), total)
	hi := min(r.End, total)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// String formats the range for logs and the UI
func (r PlaylistRange) String() string {
	if r.All {
		return QuantityAll
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
