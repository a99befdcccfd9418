package filter

import (
	"github.com/seqsense/pcdpoi/pcd"
)

type Filter interface {
	Filter([]pcd.Point) ([]pcd.Point, error)
}
