// Package shutdown coordinates graceful process termination.
//
// Components register named hooks as they start; on SIGINT, SIGTERM or a
// cancelled context the hooks run in reverse registration order under a
// shared timeout, so the listener stops before the store it serves.
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("redis server", srv.Shutdown)
//	return h.Wait(ctx)
package shutdown
