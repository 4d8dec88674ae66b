package bootstrap

import (
	"context"
	"time"

	"skin-health-backend/internal/shared/storage/object"
	"skin-health-backend/internal/shared/telemetry"
)

// SweepReport counts what one janitor pass removed.
type SweepReport struct {
	Sessions int
	Limiters int
	Uploads  int
}

// RunJanitor sweeps expired state every SweepInterval until ctx is done.
func (a *App) RunJanitor(ctx context.Context) {
	interval := a.Config.SweepInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.SweepOnce(ctx, time.Now())
		}
	}
}

// SweepOnce expires session slots and idle rate limiters and, when an upload
// retention is configured and the store supports it, deletes old uploads.
func (a *App) SweepOnce(ctx context.Context, now time.Time) SweepReport {
	var rep SweepReport
	rep.Sessions = a.Results.Sweep()

	rep.Limiters = a.Limiter.Prune(limiterIdle(a.Config.AnalyzePerMinute, a.Config.AnalyzeBurst))

	if a.Config.UploadRetention > 0 {
		if sweeper, ok := a.Store.(object.Sweeper); ok {
			n, err := sweeper.DeleteOlderThan(ctx, now.Add(-a.Config.UploadRetention))
			if err != nil {
				telemetry.Error("janitor.uploads_failed", map[string]any{"error": err})
			}
			rep.Uploads = n
		}
	}

	if rep.Sessions+rep.Limiters+rep.Uploads > 0 {
		telemetry.Info("janitor.sweep", map[string]any{
			"sessions": rep.Sessions,
			"limiters": rep.Limiters,
			"uploads":  rep.Uploads,
		})
	}
	return rep
}

// limiterIdle is how long a caller must be quiet before its bucket has
// refilled completely, so forgetting it changes nothing. Never below a minute.
func limiterIdle(perMinute float64, burst int) time.Duration {
	if perMinute <= 0 || burst <= 0 {
		return time.Hour
	}
	refill := time.Duration(float64(burst) / perMinute * float64(time.Minute))
	return max(refill, time.Minute)
}
