package launcher

import (
	"context"

	"go.uber.org/zap"
)

// DetectExternal asks the backend to enumerate other launchers' install
// directories and normalizes the results leniently. A failed backend call is
// a normal empty state ("no external instances found"), never an error the
// caller has to handle.
func DetectExternal(ctx context.Context, backend Backend, log *zap.SugaredLogger) []Instance {
	raws, err := backend.ExternalInstances(ctx)
	if err != nil {
		log.Warnw("External instance detection unavailable", zap.Error(err))
		return nil
	}

	instances := make([]Instance, 0, len(raws))
	for _, raw := range raws {
		inst, ok := NormalizeExternal(raw)
		if !ok {
			log.Debugw("Skipping external record with no path")
			continue
		}
		instances = append(instances, inst)
	}
	return instances
}
