package agent

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/claimwise/automation/action"
	"github.com/claimwise/automation/analytics"
	"github.com/claimwise/automation/config"
	"github.com/claimwise/automation/executor"
	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/metadata"
	"github.com/claimwise/automation/persistence"
	rd "github.com/claimwise/automation/persistence/redis"
	"github.com/claimwise/automation/provider"
	"github.com/claimwise/automation/rest"
	"github.com/claimwise/automation/service"
)

// Agent assembles the engine: storage, action handlers, the execution
// worker and the HTTP trigger surface.
type Agent struct {
	Config            config.Config
	storage           persistence.Storage
	automationService metadata.AutomationService
	dispatcher        *action.Dispatcher
	worker            *executor.ExecutionWorker
	triggerService    *service.AutomationTriggerService
	httpServer        *rest.Server
	shutdown          bool
	shutdownLock      sync.Mutex
	wg                sync.WaitGroup
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config: conf,
	}
	setup := []func() error{
		a.setupAnalytics,
		a.setupStorage,
		a.setupDispatcher,
		a.setupWorker,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupAnalytics() error {
	return analytics.InitDataCollector(a.Config.AnalyticsConfig)
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		a.storage = rd.NewRedisStorage(rd.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
	default:
		return fmt.Errorf("unknown storage type %s", a.Config.StorageType)
	}
	a.automationService = metadata.NewAutomationService(a.storage.Automations(), 30*time.Second)
	return nil
}

func (a *Agent) setupDispatcher() error {
	email := provider.NewHttpEmailSender(provider.HttpEmailConfig{
		Endpoint: a.Config.EmailConfig.Endpoint,
		ApiKey:   a.Config.EmailConfig.ApiKey,
	})
	sms := provider.NewHttpSMSSender(provider.HttpSMSConfig{
		Endpoint: a.Config.SMSConfig.Endpoint,
		ApiKey:   a.Config.SMSConfig.ApiKey,
	})
	a.dispatcher = action.NewDispatcher(
		time.Duration(a.Config.ActionTimeoutSeconds)*time.Second,
		action.NewCreateTaskHandler(a.storage.Tasks()),
		action.NewSendNotificationHandler(a.storage.Activity()),
		action.NewUpdateClaimHandler(a.storage.Claims()),
		action.NewUpdateClaimStatusHandler(a.storage.Claims()),
		action.NewSendEmailHandler(email, a.storage.Files(), a.storage.Activity(), a.Config.EmailConfig.FromAddress),
		action.NewSendSMSHandler(sms, a.storage.Activity(), a.Config.SMSConfig.FromNumber),
		action.NewWebhookHandler(),
	)
	return nil
}

func (a *Agent) setupWorker() error {
	a.worker = executor.NewExecutionWorker(a.storage, a.automationService, a.dispatcher,
		a.Config.BatchSize, time.Duration(a.Config.PollIntervalSeconds)*time.Second, &a.wg)
	return nil
}

func (a *Agent) setupHttpServer() error {
	a.triggerService = service.NewAutomationTriggerService(a.storage, a.automationService, a.worker)
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.triggerService, a.Config.WebhookSecret, a.Config.SignatureHeader)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	if err := a.worker.Start(); err != nil {
		return err
	}
	go func() {
		err := a.httpServer.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	shutdown := []func() error{
		a.worker.Stop,
		a.httpServer.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return nil
}
