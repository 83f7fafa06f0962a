package domain

// OwnershipGuard rejects clean-up actions against server groups whose
// name parses to a different application than the one being deployed.
// A rejection is a skip with a diagnostic, never an abort: foreign groups
// are left untouched and planning continues.
type OwnershipGuard struct {
	Diagnostics DiagnosticSink
}

// Owns reports whether the named group belongs to the request's
// application. A mismatch records a diagnostic against the requesting
// application.
func (g OwnershipGuard) Owns(req DeployRequest, serverGroupName string) bool {
	if ParseServerGroupName(serverGroupName).Application == req.Application {
		return true
	}
	diagnostics(g.Diagnostics).Record(DiagForeignServerGroup, req.Application)
	return false
}
