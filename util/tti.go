package util

import "github.com/Alonza0314/free-ran-enb/constant"

// Sfn returns the system frame number the TTI belongs to.
func Sfn(tti uint32) uint32 { return tti / constant.NofSubframesPerFrame }

// SfIdx returns the subframe index within the frame (0..9).
func SfIdx(tti uint32) uint32 { return tti % constant.NofSubframesPerFrame }

// TtiAdd advances a TTI by delay subframes, wrapping at NofTti.
func TtiAdd(tti uint32, delay int) uint32 {
	return uint32((int64(tti) + int64(delay) + int64(constant.NofTti)*1000) % int64(constant.NofTti))
}

// TtiInterval is the forward distance travelled from tti2 to reach tti1,
// accounting for the 10240-subframe wraparound (srslte_tti_interval).
func TtiInterval(tti1, tti2 uint32) uint32 {
	if tti1 >= tti2 {
		return tti1 - tti2
	}
	return tti1 + constant.NofTti - tti2
}

// IsInTtiInterval reports whether tti lies in the half-open window
// [begin, end) when walking forward from begin, wraparound-aware.
func IsInTtiInterval(tti, begin, end uint32) bool {
	return TtiInterval(tti, begin) < TtiInterval(end, begin)
}
