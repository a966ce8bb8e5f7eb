package api

import (
	"github.com/gin-gonic/gin"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/config"
	"github.com/KirthanNB/Zchedule.ai/internal/service"
)

// Deps is the process-wide set of collaborators handed to every handler.
type Deps struct {
	Log      internal.Logger
	Cfg      *config.Config
	Schedule *service.ScheduleService
}

func (d *Deps) Logger() internal.Logger             { return d.Log }
func (d *Deps) Config() *config.Config              { return d.Cfg }
func (d *Deps) Schedules() *service.ScheduleService { return d.Schedule }

var _ App = (*Deps)(nil)

func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(app.Logger()))
	r.Use(RecoveryMiddleware(app.Logger(), app.Config().IsProduction()))
	r.Use(CORSMiddleware(app.Config().CORSOrigin))

	r.GET("/", GetRoot())
	r.GET("/healthz", GetHealth())
	r.POST("/generate", PostGenerate(app))
	r.POST("/generate/profile", PostGenerateProfile(app))
	r.PUT("/profiles/:user_id", PutProfile(app))
	r.GET("/schedules/:user_id", GetSchedules(app))
	return r
}
