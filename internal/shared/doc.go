// Package shared holds helpers used by more than one package. Its testutil
// subpackage provides match document fixtures and a buffered slog handler
// for asserting on log output.
//
//	fixture := testutil.StandardMatch(1001, 6)
//	fixture.WriteFile(t, dir, "1001.json")
//
//	logger, handler := testutil.NewTestLogger(t)
//	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Successfully processed deliveries")
package shared
