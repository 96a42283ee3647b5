package ioc

import (
	id "gitee.com/autopuzzle/notification-center/internal/pkg/id_generator"
	"github.com/gotomicro/ego/core/econf"
)

func InitIDGenerator() id.Generator {
	type Config struct {
		MachineID uint16 `yaml:"machineId"`
	}
	var cfg Config
	if err := econf.UnmarshalKey("idGenerator", &cfg); err != nil {
		panic(err)
	}
	g, err := id.NewSonyflakeGenerator(cfg.MachineID)
	if err != nil {
		panic(err)
	}
	return g
}
