package territory

import (
	"errors"
	"testing"

	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/matryer/is"
)

func TestDistributeTenOverThree(t *testing.T) {
	is := is.New(t)
	regions := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	allocs, err := Distribute("s", []int64{100, 200, 300}, regions)
	is.NoErr(err)
	is.Equal(len(allocs), 10)
	counts := Counts(allocs)
	is.Equal(counts[100], 4)
	is.Equal(counts[200], 3)
	is.Equal(counts[300], 3)
	is.Equal(allocs[3], Allocation{TeamID: 100, RegionID: 4})
}

func TestDistributeNoDuplicates(t *testing.T) {
	is := is.New(t)
	regions := make([]int64, 57)
	for i := range regions {
		regions[i] = int64(i + 1)
	}
	allocs, err := Distribute("s", []int64{1, 2, 3, 4, 5}, regions)
	is.NoErr(err)
	seen := map[int64]bool{}
	for _, a := range allocs {
		is.True(!seen[a.RegionID])
		seen[a.RegionID] = true
	}
	is.Equal(len(seen), len(regions))
}

func TestDistributeNoTeams(t *testing.T) {
	is := is.New(t)
	_, err := Distribute("s", nil, []int64{1})
	is.True(errors.Is(err, proto.ErrNoTeams))
	is.True(errors.Is(err, proto.ErrPrecondition))
}

func TestDistributeNoRegions(t *testing.T) {
	is := is.New(t)
	allocs, err := Distribute("s", []int64{1}, nil)
	is.NoErr(err)
	is.Equal(len(allocs), 0)
}
