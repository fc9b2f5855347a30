package osmparser

import (
	"github.com/lintang-b-s/navigatorx-querygraph/pkg"
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

const (
	accessForward  int32 = 1 << 0
	accessBackward int32 = 1 << 1
	classShift           = 2

	flagsLen = 2
)

// EdgeFlags is the decoded form of the flags stored on every graph edge.
// Layout: [0] access bits | highway class << 2, [1] speed in km/h.
type EdgeFlags struct {
	HighwayType pkg.OsmHighwayType
	SpeedKmh    int32
	Forward     bool
	Backward    bool
}

func EncodeFlags(f EdgeFlags) da.IntsRef {
	flags := da.NewIntsRef(flagsLen)
	var access int32
	if f.Forward {
		access |= accessForward
	}
	if f.Backward {
		access |= accessBackward
	}
	flags[0] = access | int32(f.HighwayType)<<classShift
	flags[1] = f.SpeedKmh
	return flags
}

func DecodeFlags(flags da.IntsRef) (EdgeFlags, error) {
	if flags.Len() < flagsLen {
		return EdgeFlags{}, util.WrapErrorf(nil, util.ErrCorruptedData, "edge flags have %d ints, want %d", flags.Len(), flagsLen)
	}
	return EdgeFlags{
		HighwayType: pkg.OsmHighwayType(flags[0] >> classShift),
		SpeedKmh:    flags[1],
		Forward:     flags[0]&accessForward != 0,
		Backward:    flags[0]&accessBackward != 0,
	}, nil
}
