package model

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StorageTier is a capacity label such as "64GB" or "1TB".
type StorageTier string

var storageUnits = []struct {
	suffix string
	mb     int64
}{
	{"TB", 1024 * 1024},
	{"GB", 1024},
	{"MB", 1},
}

// ParseStorageTier canonicalizes labels like "256 gb" to "256GB".
func ParseStorageTier(raw string) (StorageTier, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	t := StorageTier(s)
	if _, err := t.CapacityMB(); err != nil {
		return "", errors.Wrapf(ErrInvalidStorage, "%q is not a storage label", raw)
	}
	return t, nil
}

// CapacityMB converts the label into megabytes so tiers can be ordered.
func (t StorageTier) CapacityMB() (int64, error) {
	s := string(t)
	for _, u := range storageUnits {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSuffix(s, u.suffix), 10, 64)
		if err != nil || n <= 0 {
			return 0, errors.Errorf("bad storage size in %q", s)
		}
		if n > math.MaxInt64/u.mb {
			return 0, errors.Errorf("storage size in %q is too large", s)
		}
		return n * u.mb, nil
	}
	return 0, errors.Errorf("unknown storage unit in %q", s)
}

func (t StorageTier) String() string { return string(t) }

// SortStorageTiers orders tiers by capacity, smallest first. Unparseable
// labels sort last in their original order.
func SortStorageTiers(tiers []StorageTier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		a, errA := tiers[i].CapacityMB()
		b, errB := tiers[j].CapacityMB()
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a < b
		}
	})
}
