package ioc

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gotomicro/ego/core/econf"
)

// InitAWSConfig 凭证走 SDK 默认链，环境变量或者实例角色
func InitAWSConfig() aws.Config {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(econf.GetString("aws.region")))
	if err != nil {
		panic(err)
	}
	return cfg
}
