// Package http implements the HTTP handlers of the dataset web service.
// Handlers parse and validate requests, delegate to the services layer and
// render JSON with go-chi/render. Failures are written as RFC 7807 problem
// details through errors.ErrorHandler.
//
// # Routes
//
// DatasetHandler.Routes is mounted at /api/v1:
//
//	GET  /deliveries         rows filtered by match_id, batting_team, innings
//	                         and paged with limit (default 100, max 1000)
//	                         and offset
//	GET  /matches            matches of the loaded dataset
//	GET  /matches/{matchID}  one match
//	GET  /summary            headline statistics
//	GET  /status             load state of the dataset
//	POST /reload             re-read the matches directory
//
// HealthHandler.Routes is mounted at /healthz with /ready and /live probes.
//
// # Error mapping
//
//	services.ErrDatasetNotLoaded  503 Service Unavailable
//	services.ErrInvalidQuery      400 Bad Request
//	services.ErrMatchNotFound     404 Not Found
//	failed reload                 500 with error_code DATASET_LOAD_FAILED
package http
