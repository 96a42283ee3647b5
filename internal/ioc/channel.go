package ioc

import (
	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/repository"
	"gitee.com/autopuzzle/notification-center/internal/service/channel"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/console"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/email"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/inapp"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/metrics"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/sequential"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/sms"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/sms/client"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/tracing"
	"gitee.com/autopuzzle/notification-center/internal/service/sender"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
)

// smsConfig 供应商按配置顺序故障转移，没有启用任何供应商时退回控制台输出
type smsConfig struct {
	Aliyun struct {
		Enabled         bool       `yaml:"enabled"`
		RegionID        string     `yaml:"regionId"`
		AccessKeyID     string     `yaml:"accessKeyId"`
		AccessKeySecret string     `yaml:"accessKeySecret"`
		Template        sms.Config `yaml:"template"`
	} `yaml:"aliyun"`
	Tencent struct {
		Enabled   bool       `yaml:"enabled"`
		RegionID  string     `yaml:"regionId"`
		SecretID  string     `yaml:"secretId"`
		SecretKey string     `yaml:"secretKey"`
		AppID     string     `yaml:"appId"`
		Template  sms.Config `yaml:"template"`
	} `yaml:"tencent"`
	SNS struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"sns"`
}

func InitChannel(awsCfg aws.Config, users repository.UserRepository,
	inbox repository.InboxRepository, cfg NotificationConfig,
) channel.Channel {
	return channel.NewDispatcher(map[domain.Channel]channel.Channel{
		domain.ChannelSMS: channel.NewSMSChannel(
			sequential.NewSelectorBuilder(initSMSProviders(awsCfg)), cfg.SendTimeout),
		domain.ChannelEmail: channel.NewEmailChannel(
			sequential.NewSelectorBuilder(initEmailProviders(awsCfg)), cfg.SendTimeout),
		domain.ChannelInApp: channel.NewInAppChannel(
			sequential.NewSelectorBuilder([]provider.Provider{
				observe("inapp", inapp.NewProvider(users, inbox)),
			}), cfg.SendTimeout),
	})
}

func InitSender(repo repository.NotificationLogRepository, ch channel.Channel, cfg NotificationConfig) sender.NotificationSender {
	return sender.NewObservabilitySender(sender.NewSender(repo, ch, cfg.Concurrency))
}

func initSMSProviders(awsCfg aws.Config) []provider.Provider {
	var cfg smsConfig
	if err := econf.UnmarshalKey("sms", &cfg); err != nil {
		panic(err)
	}
	var providers []provider.Provider
	if cfg.Aliyun.Enabled {
		cli, err := client.NewAliyunSMS(cfg.Aliyun.RegionID, cfg.Aliyun.AccessKeyID, cfg.Aliyun.AccessKeySecret)
		if err != nil {
			panic(err)
		}
		providers = append(providers, observe("aliyun", sms.NewSMSProvider("aliyun", cli, cfg.Aliyun.Template)))
	}
	if cfg.Tencent.Enabled {
		cli, err := client.NewTencentCloudSMS(cfg.Tencent.RegionID, cfg.Tencent.SecretID, cfg.Tencent.SecretKey, cfg.Tencent.AppID)
		if err != nil {
			panic(err)
		}
		providers = append(providers, observe("tencent", sms.NewSMSProvider("tencent", cli, cfg.Tencent.Template)))
	}
	if cfg.SNS.Enabled {
		cli := client.NewSNSSMS(sns.NewFromConfig(awsCfg))
		providers = append(providers, observe("sns", sms.NewSMSProvider("sns", cli, sms.Config{})))
	}
	if len(providers) == 0 {
		elog.DefaultLogger.Warn("没有启用短信供应商，短信只输出到日志")
		providers = append(providers, observe("console", console.NewProvider()))
	}
	return providers
}

func initEmailProviders(awsCfg aws.Config) []provider.Provider {
	type Config struct {
		Enabled bool   `yaml:"enabled"`
		From    string `yaml:"from"`
	}
	var cfg Config
	if err := econf.UnmarshalKey("email.ses", &cfg); err != nil {
		panic(err)
	}
	if !cfg.Enabled {
		elog.DefaultLogger.Warn("没有启用邮件供应商，邮件只输出到日志")
		return []provider.Provider{observe("console", console.NewProvider())}
	}
	return []provider.Provider{observe("ses", email.NewSESProvider(ses.NewFromConfig(awsCfg), cfg.From))}
}

func observe(name string, p provider.Provider) provider.Provider {
	return tracing.NewProvider(name, metrics.NewProvider(name, p))
}
