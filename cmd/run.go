package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alonza0314/free-ran-enb/enb"
	loggerpkg "github.com/Alonza0314/free-ran-enb/logger"
	"github.com/Alonza0314/free-ran-enb/model"
	"github.com/Alonza0314/free-ran-enb/util"

	loggergoUtil "github.com/Alonza0314/logger-go/v2/util"
)

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Run the eNB MAC scheduler.",
	Long:    "Loads a carrier configuration and drives its scheduler off a 1ms TTI clock.",
	Example: "free-ran-enb run -c config/scheduler.yaml",
	Run:     runFunc,
}

func init() {
	runCmd.Flags().StringP("config", "c", "config/scheduler.yaml", "config file path")
	if err := runCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(runCmd)
}

func runFunc(cmd *cobra.Command, args []string) {
	configFilePath, err := cmd.Flags().GetString("config")
	if err != nil {
		panic(err)
	}

	schedulerConfig := model.SchedulerConfig{}
	if err := util.LoadFromYaml(configFilePath, &schedulerConfig); err != nil {
		panic(err)
	}

	log := loggerpkg.NewSchedulerLogger(
		loggergoUtil.LogLevelString(schedulerConfig.Logger.Level),
		schedulerConfig.Logger.FilePath,
		schedulerConfig.Logger.DebugMode,
	)

	e := enb.NewEnb(&schedulerConfig, log)
	if err := e.Start(); err != nil {
		panic(err)
	}
	defer e.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
