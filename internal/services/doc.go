// Package services implements the query layer between the HTTP handlers and
// the flattened delivery dataset.
//
// # DatasetService
//
// DatasetService owns the in-memory dataset. Reload runs the corpus loader
// and swaps in a new immutable snapshot; readers never see a partially
// built dataset. Concurrent reloads are coalesced into a single load, and a
// failed reload leaves the previous snapshot in place.
//
//	svc := services.NewDatasetService(loader, cfg.Pipeline.MatchesDir, logger)
//	if _, err := svc.Reload(ctx); err != nil {
//	    return err
//	}
//	page, err := svc.Deliveries(ctx, services.DeliveryQuery{MatchID: 1001, Limit: 50})
//
// Queries filter by match id, batting team (case-insensitive) and innings
// number, and page with limit/offset. Queries against an empty service return
// ErrDatasetNotLoaded.
//
// # HealthService
//
// HealthService answers liveness, readiness and version probes. The service is
// ready once a dataset is loaded and the matches directory is reachable.
package services
