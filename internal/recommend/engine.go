package recommend

import (
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/exposure"
	"github.com/rcliao/field-planner/internal/model"
)

// ErrEmptyPool is returned when no POI is registered for the category.
var ErrEmptyPool = errors.New("no candidate POIs for category")

const (
	visitLength = 2 * time.Hour
	latestEnd   = 23 * 60
)

// Result is a generated entry together with the quota after the call.
type Result struct {
	Entry model.ScheduleEntry `json:"entry"`
	Quota model.Quota         `json:"quota"`
}

// Engine generates recommended entries.
type Engine struct {
	rng     *rand.Rand
	entropy io.Reader
	logger  *zap.Logger
}

// NewEngine returns an engine picking POIs with rng. A nil rng is seeded from the clock.
func NewEngine(rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rng:     rng,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(rng.Int63())), 0),
		logger:  logger,
	}
}

// TryGenerate spends one quota use and builds a recommended entry for a
// uniformly chosen POI of the pool. On *QuotaExceededError the returned
// quota is the state the caller should keep.
func (e *Engine) TryGenerate(category model.Category, q model.Quota, now time.Time, pool []model.POI) (Result, error) {
	if len(pool) == 0 {
		return Result{Quota: q}, errors.Wrapf(ErrEmptyPool, "category %s", category)
	}

	next, err := Acquire(q, now)
	if err != nil {
		e.logger.Info("recommendation rejected",
			zap.String("category", string(category)),
			zap.Int("used", next.Used),
			zap.Duration("remaining", Remaining(next, now)))
		return Result{Quota: next}, err
	}

	poi := pool[e.rng.Intn(len(pool))]
	start := model.ClockOf(now)
	entry := model.ScheduleEntry{
		ID:                "rec-" + ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		Source:            model.SourceRecommended,
		POI:               poi,
		Date:              model.DateOf(now),
		StartTime:         start,
		EndTime:           endTime(now),
		EstimatedExposure: exposure.Of(poi, start),
		Status:            model.StatusPlanned,
	}

	e.logger.Debug("recommendation generated",
		zap.String("category", string(category)),
		zap.String("poi", poi.ID),
		zap.Int("exposure", entry.EstimatedExposure),
		zap.Int("used", next.Used))
	return Result{Entry: entry, Quota: next}, nil
}

// endTime is min(now+2h, 23:00), never earlier than now.
func endTime(now time.Time) string {
	start := now.Hour()*60 + now.Minute()
	end := start + int(visitLength/time.Minute)
	if end > latestEnd {
		end = latestEnd
	}
	if end < start {
		end = start
	}
	return model.FormatClock(end)
}
