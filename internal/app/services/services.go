// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - AuthService: login, logout and session lookup
//   - CourseService: course and subject status reconciliation
//   - HealthService: store liveness probe
package services
