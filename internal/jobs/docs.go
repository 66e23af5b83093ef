// Package jobs runs the background work of the order service.
//
//   - CartSweepJob (robfig/cron, once a minute) drops cart sessions idle for longer than
//     CART_IDLE_TTL. An abandoned cart is lost, like a closed browser tab.
//   - NotificationPool sends placement e-mails and SMS on a few workers. Order creation only
//     enqueues; a full queue drops the message with a warning.
//
// JobManager starts both and stops them in reverse order on shutdown:
//
//	jm := jobs.NewJobManager(sweepHandler, idleTTL, pool, logger)
//	if err := jm.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer jm.StopAll()
package jobs
