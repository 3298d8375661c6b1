package prep

import (
	"math"
	"math/rand"
	"sort"

	"raisingate/domain/core"
	"raisingate/domain/dataset"
)

// Split shuffles rows with a seeded source and holds out ceil(n*testSize)
// of them for testing. The same seed always produces the same split.
func Split(ds *dataset.Dataset, testSize float64, seed int64) (train, test *dataset.Dataset, err error) {
	n := ds.RowCount()
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, core.ErrInsufficientData
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest == 0 || nTest >= n {
		return nil, nil, core.ErrInsufficientData
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testRows := append([]int(nil), perm[:nTest]...)
	trainRows := append([]int(nil), perm[nTest:]...)
	sort.Ints(testRows)
	sort.Ints(trainRows)

	train = ds.Take(trainRows)
	test = ds.Take(testRows)
	train.Name, test.Name = ds.Name, ds.Name
	return train, test, nil
}
