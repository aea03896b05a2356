package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sistema/engine/internal/queue"
	"github.com/sistema/engine/internal/services"
	appErr "github.com/sistema/engine/pkg/errors"
	"github.com/sistema/engine/pkg/logger"
)

// AnalyzeHandler recomputes a project's schedule after it changed and logs
// the outcome.
type AnalyzeHandler struct {
	schedule services.ScheduleService
}

func NewAnalyzeHandler(schedule services.ScheduleService) *AnalyzeHandler {
	return &AnalyzeHandler{schedule: schedule}
}

// Register binds the handler on mux.
func (h *AnalyzeHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeScheduleAnalyze, h.HandleAnalyze)
}

func (h *AnalyzeHandler) HandleAnalyze(ctx context.Context, t *asynq.Task) error {
	var p queue.AnalyzePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid analyze task payload", zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if p.ProjectID == "" {
		logger.L().Error("analyze task without project id")
		return fmt.Errorf("%w: empty project id", asynq.SkipRetry)
	}

	logger.L().Info("handling analyze task", zap.String("project_id", p.ProjectID))

	res, err := h.schedule.CriticalPath(ctx, p.ProjectID)
	if err != nil {
		logger.L().Error("schedule analysis failed", zap.String("project_id", p.ProjectID), zap.Error(err))
		// a rejected graph stays rejected until the next mutation
		if appErr.IsCode(err, appErr.CodeInvalid) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}

	nonCritical := 0
	maxSlack := 0
	for _, e := range res.Entries {
		if !e.IsCritical {
			nonCritical++
		}
		if e.Slack > maxSlack {
			maxSlack = e.Slack
		}
	}

	logger.L().Info("schedule analyzed",
		zap.String("project_id", p.ProjectID),
		zap.Int("tasks", len(res.Entries)),
		zap.Int("project_duration", res.ProjectDuration),
		zap.Strings("critical_path", res.CriticalPath),
		zap.Int("non_critical", nonCritical),
		zap.Int("max_slack", maxSlack),
	)
	return nil
}
