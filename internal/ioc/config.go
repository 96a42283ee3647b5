package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
)

// NotificationConfig 发送和定时相关的参数
type NotificationConfig struct {
	// Location 日历换算、按天统计和导出都用这个时区
	Location    string        `yaml:"location"`
	Concurrency int           `yaml:"concurrency"`
	SendTimeout time.Duration `yaml:"sendTimeout"`
	DueCheck    struct {
		BatchSize int           `yaml:"batchSize"`
		Interval  time.Duration `yaml:"interval"`
	} `yaml:"dueCheck"`
	// StaleAfter 通知记录停在 pending、定时通知停在 dispatching 超过这个时间视为发送中断
	StaleAfter              time.Duration `yaml:"staleAfter"`
	TemplateCacheExpiration time.Duration `yaml:"templateCacheExpiration"`
}

func InitNotificationConfig() NotificationConfig {
	cfg := NotificationConfig{
		Location:    "Asia/Tehran",
		Concurrency: 10,
		SendTimeout: 10 * time.Second,
		StaleAfter:  10 * time.Minute,
	}
	cfg.DueCheck.BatchSize = 100
	cfg.DueCheck.Interval = time.Minute
	if err := econf.UnmarshalKey("notification", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

func InitLocation(cfg NotificationConfig) *time.Location {
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		panic(err)
	}
	return loc
}
