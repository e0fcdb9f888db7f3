package constant

// TTI/SFN numbering (LTE FDD).
const (
	// NofSubframesPerFrame is the number of 1ms subframes in one radio frame.
	NofSubframesPerFrame = 10
	// NofSfn is the number of frames before the system frame number wraps.
	NofSfn = 1024
	// NofTti is the number of subframes before the TTI index wraps (SFN*10).
	NofTti = NofSfn * NofSubframesPerFrame
)

// Fixed FDD processing delays, named instead of preprocessor-hidden.
const (
	// FddTxDelay is tti_tx_dl - tti_rx.
	FddTxDelay = 4
	// FddUlDelay is tti_tx_ul - tti_rx.
	FddUlDelay = 4
	// Msg3DelayMs is the extra lead from a granted RAR to its Msg3 UL grant.
	Msg3DelayMs = 6
)

// Subframe-slot ring. Must exceed max(FddTxDelay, Msg3DelayMs)+1 so the
// oldest in-flight slot is never re-bound before the PHY consumes it.
const SfSchedRingLen = Msg3DelayMs + FddTxDelay + 2

// MaxRarPerRnti bounds the number of preambles that may share one RA-RNTI
// within a single pending RAR entry (PHY-capped).
const MaxRarPerRnti = 16

// MaxSib is the maximum number of configurable SIB slots (SIB1..SIB_N).
const MaxSib = 16

// MaxSibRetx is the per-80ms-cycle transmission cap for any SIB entry.
const MaxSibRetx = 4

// PrachMaskWidth is the number of contiguous PRBs a PRACH occasion reserves.
const PrachMaskWidth = 6

// BcAggrLevel and RarAggrLevel are the fixed PDCCH aggregation levels used
// for broadcast and RAR grants.
const (
	BcAggrLevel  = 2
	RarAggrLevel = 2
)

// PDCCH capacity model: each control symbol (CFI) contributes a fixed
// number of control-channel-element units, and a grant at aggregation
// level L consumes 2^L of them. This stands in for the PHY's CCE/REG
// layout, which is explicitly out of scope (spec.md §1).
const (
	CceUnitsPerCfiSymbol = 12
	MaxCfiSymbols        = 3
)

