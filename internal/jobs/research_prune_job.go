package job

import (
	"context"
	"time"

	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// ResearchPruneJob trims each operator's research history to the newest
// keep entries.
type ResearchPruneJob struct {
	rr      repository.ResearchRepository
	keep    int
	timeout time.Duration
}

func NewResearchPruneJob(rr repository.ResearchRepository, keep int) *ResearchPruneJob {
	return &ResearchPruneJob{
		rr:      rr,
		keep:    keep,
		timeout: time.Minute,
	}
}

func (j *ResearchPruneJob) PruneResearch() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	removed, err := j.rr.Prune(ctx, j.keep)
	if err != nil {
		logging.GetLogger().Error("research prune failed", zap.Error(err))
		return
	}
	if removed > 0 {
		logging.GetLogger().Info("research history pruned", zap.Int64("removed", removed), zap.Int("keep", j.keep))
	}
}

// Register adds the job to c on the given schedule.
func (j *ResearchPruneJob) Register(c *cron.Cron, schedule string) error {
	return c.AddFunc(schedule, j.PruneResearch)
}
