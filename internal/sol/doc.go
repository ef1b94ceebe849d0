// Package sol manages named database containers backed by Lima instances.
//
// A container is a Lima guest running one of the supported engines (MySQL,
// PostgreSQL, MongoDB). Its rendered Lima configuration is kept in a Registry,
// one entry per name; an entry exists iff the container was created and not
// yet deleted.
//
// Manager drives the lifecycle:
//
//	m := sol.NewManager(sol.NewToolchain(brewClient, limaClient), limaClient, sol.NewFileRegistry(dir))
//	res, err := m.Create(ctx, types.EnginePostgreSQL, "pgdb")
//	if errors.Is(err, sol.ErrDuplicateContainer) {
//		...
//	}
//
// Failures are returned as *Error and can be matched by kind with errors.Is
// against the Err* sentinels.
package sol
