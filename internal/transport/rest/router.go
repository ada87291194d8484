package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/skill-matrix/internal/admin"
	"github.com/frahmantamala/skill-matrix/internal/auth"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/dashboard"
	"github.com/frahmantamala/skill-matrix/internal/helpdesk"
	"github.com/frahmantamala/skill-matrix/internal/notification"
	"github.com/frahmantamala/skill-matrix/internal/settings"
	"github.com/frahmantamala/skill-matrix/internal/skills"
	"github.com/frahmantamala/skill-matrix/internal/transport/middleware"
	"github.com/frahmantamala/skill-matrix/internal/user"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	adminHandler *admin.Handler,
	skillHandler *skills.Handler,
	helpdeskHandler *helpdesk.Handler,
	dashboardHandler *dashboard.Handler,
	notificationHandler *notification.Handler,
	settingsHandler *settings.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/forgot-password", authHandler.ForgotPassword)
			sr.Post("/verify-otp", authHandler.VerifyOTP)
			sr.Post("/reset-password", authHandler.ResetPassword)
		})

		// Everything below needs a valid access token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetProfile)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", userHandler.GetUsers)
				ur.Get("/{id}", userHandler.GetUser)

				ur.Group(func(ar chi.Router) {
					ar.Use(rbac.RequirePermission(userdm.PermissionCreateUser))
					ar.Post("/", userHandler.CreateUser)
				})
				ur.Group(func(ar chi.Router) {
					ar.Use(rbac.RequirePermission(userdm.PermissionUpdateUser))
					ar.Put("/{id}", userHandler.UpdateUser)
					ar.Patch("/{id}/hierarchy", userHandler.UpdateHierarchy)
					ar.Patch("/{id}/activate", userHandler.ActivateUser)
				})
				ur.Group(func(ar chi.Router) {
					ar.Use(rbac.RequirePermission(userdm.PermissionDeleteUser))
					ar.Delete("/{id}", userHandler.DeleteUser)
				})
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireManager())
				mr.Get("/team", userHandler.GetTeam)
			})

			pr.Route("/admin/roles", func(ar chi.Router) {
				ar.Use(rbac.RequirePermission(userdm.PermissionManageRoles))
				ar.Post("/", adminHandler.CreateRole)
				ar.Get("/", adminHandler.GetRoles)
				ar.Post("/assign", adminHandler.AssignRole)
				ar.Post("/bulk-upload", adminHandler.BulkUploadRoles)
			})

			pr.Route("/skills", func(sr chi.Router) {
				sr.Get("/", skillHandler.GetSkills)
				sr.Get("/{id}", skillHandler.GetSkill)

				sr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequirePermission(userdm.PermissionManageSkill))
					ar.Post("/", skillHandler.CreateSkill)
					ar.Put("/{id}", skillHandler.UpdateSkill)
					ar.Delete("/{id}", skillHandler.DeleteSkill)
				})
			})

			pr.Route("/assessments", func(sr chi.Router) {
				sr.Post("/", skillHandler.AddAssessment)
				sr.Get("/", skillHandler.GetMyAssessments)
				sr.Put("/{id}", skillHandler.UpdateAssessment)
			})

			pr.Route("/helpdesk", func(hr chi.Router) {
				hr.Post("/tickets", helpdeskHandler.CreateTicket)
				hr.Get("/tickets", helpdeskHandler.GetTickets)
				hr.Get("/tickets/{id}", helpdeskHandler.GetTicket)

				hr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Patch("/tickets/{id}", helpdeskHandler.UpdateTicket)
					ar.Get("/stats", helpdeskHandler.GetTicketStats)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", notificationHandler.GetNotifications)
				nr.Get("/unread-count", notificationHandler.GetUnreadCount)
				nr.Patch("/{id}/read", notificationHandler.MarkRead)
				nr.Patch("/read-all", notificationHandler.MarkAllRead)
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Get("/me", dashboardHandler.GetEmployeeDashboard)

				dr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManager())
					mr.Get("/manager", dashboardHandler.GetManagerDashboard)
					mr.Get("/team", dashboardHandler.GetTeamOverview)
					mr.Get("/team/skills", dashboardHandler.GetTeamSkillOverview)
					mr.Get("/team/skills/{skillId}", dashboardHandler.GetTeamUsersBySkill)
					mr.Get("/team/tickets", dashboardHandler.GetTeamTickets)
					mr.Patch("/assessments/{assessmentId}/expectation", dashboardHandler.UpdateSkillExpectation)
				})

				dr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequirePermission(userdm.PermissionViewReports))
					ar.Get("/admin", dashboardHandler.GetAdminDashboard)
					ar.Get("/metrics", dashboardHandler.GetOrgMetrics)
					ar.Get("/skill-gap", dashboardHandler.GetSkillGapAnalysis)
					ar.Get("/heatmap", dashboardHandler.GetDepartmentHeatmap)
					ar.Get("/matrix", dashboardHandler.GetEmployeeMatrix)
					ar.Get("/skills", dashboardHandler.GetSkillDirectory)
					ar.Get("/departments/{department}", dashboardHandler.GetDepartmentMetrics)
				})
			})

			pr.Route("/settings", func(sr chi.Router) {
				sr.Use(rbac.RequireAdmin())
				sr.Post("/fields", settingsHandler.CreateField)
				sr.Get("/fields", settingsHandler.GetFields)
				sr.Get("/fields/{id}", settingsHandler.GetField)
				sr.Put("/fields/{id}", settingsHandler.UpdateField)
				sr.Delete("/fields/{id}", settingsHandler.DeleteField)

				sr.Get("/employees", settingsHandler.SearchEmployees)
				sr.Post("/employees/move", settingsHandler.MoveEmployee)
				sr.Post("/employees/bulk-move", settingsHandler.BulkMove)
				sr.Post("/employees/{id}/deactivate", settingsHandler.DeactivateEmployee)
				sr.Post("/employees/bulk-deactivate", settingsHandler.BulkDeactivate)
				sr.Get("/employees/inactive", settingsHandler.GetInactiveEmployees)
			})
		})
	})
}
