package util

// EncodeRiv and DecodeRiv implement the classical LTE type-2 downlink
// resource allocation resource indication value (3GPP TS 36.213 §8.1.1),
// parameterised by the bandwidth nPrb in PRBs (both callers pass the
// cell's UL bandwidth, since the grant is for Msg3). alloc_rar encodes a
// granted (rbStart, lCrb) pair into the RIV carried by the RAR DCI;
// sched_msg3 decodes that same RIV back into (n_prb, L) to build the
// Msg3 grant. Both directions must agree bit-exactly, which is what the
// round-trip test in util/riv_test.go pins down.
func EncodeRiv(nPrb, rbStart, lCrb int) uint32 {
	if lCrb <= 0 {
		lCrb = 1
	}
	if lCrb-1 <= nPrb/2 {
		return uint32(nPrb*(lCrb-1) + rbStart)
	}
	return uint32(nPrb*(nPrb-lCrb+1) + (nPrb - 1 - rbStart))
}

// DecodeRiv recovers (rbStart, lCrb) from a RIV for a cell of nPrb PRBs.
// It returns lCrb == 0 if the RIV does not correspond to any valid
// allocation for the given bandwidth.
func DecodeRiv(riv uint32, nPrb int) (rbStart, lCrb int) {
	for l := 1; l <= nPrb; l++ {
		for start := 0; start <= nPrb-l; start++ {
			if EncodeRiv(nPrb, start, l) == riv {
				return start, l
			}
		}
	}
	return 0, 0
}
