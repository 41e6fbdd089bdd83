package services

// Services defined in this package:
// - AuthService: Handles authentication and student registration
// - LogbookService: Handles the logbook entry lifecycle
// - StatsService: Computes and caches per-student logbook stats
// - ClearanceService: Aggregates approvals into the clearance record
// - SupervisorService: Handles supervisor reviews and dashboards
