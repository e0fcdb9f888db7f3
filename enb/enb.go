package enb

import (
	"time"

	"github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/mac"
	"github.com/Alonza0314/free-ran-enb/model"
	"github.com/Alonza0314/free-ran-enb/util"
)

// Enb owns the carrier scheduler(s) and the TTI clock driving them, the
// scheduler-side analogue of the UE-side sibling project's Gnb.
type Enb struct {
	cfg *model.SchedulerConfig
	log *logger.SchedulerLogger

	ueDb    mac.UeDb
	carrier *mac.CarrierSched

	tti      uint32
	preamble int

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewEnb(cfg *model.SchedulerConfig, log *logger.SchedulerLogger) *Enb {
	ueDb := mac.UeDb{}
	return &Enb{
		cfg:     cfg,
		log:     log,
		ueDb:    ueDb,
		carrier: mac.NewCarrierSched(0, ueDb, log),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start configures the carrier and launches the 1ms TTI clock goroutine.
func (e *Enb) Start() error {
	params := &mac.CarrierParams{
		Cell:     &e.cfg.Cell,
		StartCfi: e.cfg.Scheduler.StartCfi,
		RRC:      mac.NoPagingRRC{},
		DlMetric: mac.NewDlMetricRR(e.log),
		UlMetric: mac.NewUlMetricRR(e.log),
	}
	if err := e.carrier.CarrierCfg(params); err != nil {
		return err
	}

	go e.run()
	return nil
}

func (e *Enb) run() {
	defer close(e.doneCh)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.synthesizePrach()

			slot := e.carrier.GenerateTTIResult(e.tti)
			if util.SfIdx(e.tti) == 0 {
				e.log.CarrierLog.Debugf("tti_rx=%d sfn=%d bc=%d rar=%d data=%d pusch=%d",
					e.tti, slot.Sfn(), len(slot.DlSchedResult().Bc), len(slot.DlSchedResult().Rar),
					len(slot.DlSchedResult().Data), len(slot.UlSchedResult().Pusch))
			}
			e.tti = util.TtiAdd(e.tti, 1)
		}
	}
}

// synthesizePrach stands in for a PHY PRACH detector: every 23 TTIs it
// reports a detection at the current tti_rx, enough to exercise
// ra_sched end to end in the CLI demo without a real RF front end.
func (e *Enb) synthesizePrach() {
	if e.tti%23 != 0 {
		return
	}
	e.preamble = (e.preamble + 1) % 64
	tempCrnti := uint16(0x4601 + e.preamble)
	if err := e.carrier.DlRachInfo(mac.RachInfo{
		PrachTti:  e.tti,
		Preamble:  e.preamble,
		TempCrnti: tempCrnti,
		Msg3Size:  7,
		RbStart:   0,
		L:         2,
		Mcs:       10,
	}); err != nil {
		e.log.RaLog.Warnf("Failed to register synthetic PRACH detection: %v", err)
	}
}

// Stop signals the TTI clock goroutine to exit and waits for it.
func (e *Enb) Stop() {
	close(e.stopCh)
	<-e.doneCh
}

// DlRachInfo forwards a PRACH detection to the carrier scheduler, the
// external-interface entry point a PHY driver would call.
func (e *Enb) DlRachInfo(info mac.RachInfo) error {
	return e.carrier.DlRachInfo(info)
}
