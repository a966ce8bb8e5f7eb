package api

import (
	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/config"
	"github.com/KirthanNB/Zchedule.ai/internal/service"
)

type App interface {
	Logger() internal.Logger
	Config() *config.Config
	Schedules() *service.ScheduleService
}
