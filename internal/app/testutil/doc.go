// Package testutil provides shared helpers for voxscribe tests.
//
//   - ScriptedVendor (mock_vendor.go): a provider.Vendor that replays a
//     scripted sequence of job statuses and records what it was sent.
//   - MockServices (mock_services.go): testify mocks of the HTTP service
//     interfaces, for handler tests.
//   - SetupTestSQLite / SetupTestPostgres (db_helpers.go): real stores
//     with automatic cleanup. The PostgreSQL helper skips unless
//     POSTGRES_TEST_URL is set.
//   - Fixtures (fixtures.go): sample records, utterances and file bytes.
//
// # Usage
//
//	func TestPipeline(t *testing.T) {
//	    v := testutil.NewScriptedVendor().
//	        WithStatuses(model.JobProcessing).
//	        WithResult(testutil.CompletedResult("olá mundo"))
//	    ...
//	}
package testutil
