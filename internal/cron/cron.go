package cron

import (
	"context"
	"os"
	"sync"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	cron_config "github.com/Mdx2025/emailbot-backend/internal/cron/config"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

// GroupSync serializes jobs touching the CRM mirror.
const GroupSync = "sync"

var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupSync: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg        *config.Config
	log        logger.Logger
	cron       *cronv3.Cron
	stopCh     chan struct{}
	jobIDs     map[string]cronv3.EntryID
	syncBridge interfaces.SyncBridgeService
}

func NewCronManager(cfg *config.Config, log logger.Logger, syncBridge interfaces.SyncBridgeService) *CronManager {
	return &CronManager{
		cfg:        cfg,
		log:        log,
		stopCh:     make(chan struct{}),
		jobIDs:     make(map[string]cronv3.EntryID),
		syncBridge: syncBridge,
	}
}

// Start initializes and starts the cron scheduler. Single-process
// deployment, so there is no leader election here.
func (cm *CronManager) Start() {
	cm.log.Info("Starting cron manager")
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	if cronConfig.CronScheduleHeartbeat != "" {
		hostname, _ := os.Hostname()
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from host: %s", hostname)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	if cm.cfg.CRMConfig.SyncSchedule != "" {
		id, err := c.AddFunc(cm.cfg.CRMConfig.SyncSchedule, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupSync].Lock()
			defer jobLocks.locks[GroupSync].Unlock()
			cm.reconcileCRM()
		})
		if err != nil {
			cm.log.Fatalf("Could not add CRM reconciliation cron job: %v", err)
		}
		cm.jobIDs["crm_reconciliation"] = id
		cm.log.Infof("Registered CRM reconciliation job with schedule: %s", cm.cfg.CRMConfig.SyncSchedule)
	}
}

// reconcileCRM retries every draft whose last CRM mirror attempt failed.
func (cm *CronManager) reconcileCRM() {
	cm.log.Info("Running CRM reconciliation sweep")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.reconcileCRM")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	synced, err := cm.syncBridge.Reconcile(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("CRM reconciliation sweep failed: %v", err)
		return
	}

	cm.log.Infof("CRM reconciliation sweep completed, re-synced %d drafts", synced)
}
