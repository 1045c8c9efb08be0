package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/claimwise/automation/agent"
	"github.com/claimwise/automation/analytics"
	"github.com/claimwise/automation/config"
	"github.com/claimwise/automation/logger"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "claimwise", "namespace used in storage")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "redis", "implementation of underline storage")
	cmd.Flags().Int("batch-size", 10, "pending executions processed per worker pass")
	cmd.Flags().Int("poll-interval", 5, "worker poll interval in seconds")
	cmd.Flags().Int("action-timeout", 30, "per action timeout in seconds, 0 to disable")
	cmd.Flags().String("webhook-secret", "", "shared secret for trigger signature verification")
	cmd.Flags().String("signature-header", "X-Signature", "header carrying the trigger signature")
	cmd.Flags().String("email-endpoint", "", "email provider endpoint")
	cmd.Flags().String("email-api-key", "", "email provider api key")
	cmd.Flags().String("email-from", "claims@example.com", "sender address for outbound email")
	cmd.Flags().String("sms-endpoint", "", "sms provider endpoint")
	cmd.Flags().String("sms-api-key", "", "sms provider api key")
	cmd.Flags().String("sms-from", "", "sender number for outbound sms")
	cmd.Flags().String("analytics-file", "", "file for action outcome records, empty to disable")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.BatchSize = viper.GetInt("batch-size")
	c.cfg.PollIntervalSeconds = viper.GetInt("poll-interval")
	c.cfg.ActionTimeoutSeconds = viper.GetInt("action-timeout")
	c.cfg.WebhookSecret = viper.GetString("webhook-secret")
	c.cfg.SignatureHeader = viper.GetString("signature-header")
	c.cfg.EmailConfig.Endpoint = viper.GetString("email-endpoint")
	c.cfg.EmailConfig.ApiKey = viper.GetString("email-api-key")
	c.cfg.EmailConfig.FromAddress = viper.GetString("email-from")
	c.cfg.SMSConfig.Endpoint = viper.GetString("sms-endpoint")
	c.cfg.SMSConfig.ApiKey = viper.GetString("sms-api-key")
	c.cfg.SMSConfig.FromNumber = viper.GetString("sms-from")
	if file := viper.GetString("analytics-file"); file != "" {
		c.cfg.AnalyticsConfig = analytics.DataCollectorConfig{
			FileName:      file,
			CollectorType: analytics.LOG_FILE_DATA_COLLECTOR,
		}
	}
	return logger.InitLogger(viper.GetBool("debug"))
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "claimwise-automation",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
