package util

// RbgSize returns the resource-block-group size P for a cell of nofPrb
// PRBs, per 3GPP TS 36.213 Table 7.1.6.1-1.
func RbgSize(nofPrb int) int {
	switch {
	case nofPrb <= 10:
		return 1
	case nofPrb <= 26:
		return 2
	case nofPrb <= 63:
		return 3
	default:
		return 4
	}
}

// NofPrbGroups returns the number of RBGs covering a cell of nofPrb PRBs.
func NofPrbGroups(nofPrb int) int {
	p := RbgSize(nofPrb)
	return (nofPrb + p - 1) / p
}
