package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/pkg/metrics"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireData()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge(metrics.SystemCPUUse, int64(_cpuuse[0]*100)) // percentage * 100
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge(metrics.SystemMemUse, int64(_meminfo.Used/1024/1024))
	}
}

// SchedClearExpireData purges read notifications past retention and
// year-old audit events.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	idays := a.configManager.GetInt("notification", "retention_days")
	if idays == 0 {
		idays = 90
	}
	a.gormDB.
		Where("is_read = ? AND created_at < ?", true,
			time.Now().Add(-time.Hour*24*time.Duration(idays))).
		Delete(&domain.Notification{})

	a.gormDB.
		Where("created_at < ?", time.Now().Add(-time.Hour*24*365)).
		Delete(&domain.SysEventLog{})
}
