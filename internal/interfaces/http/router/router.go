// Package router assembles the gin engine: the middleware chain, the
// public endpoints and the authenticated API with its per-role route
// gates.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/config"
	"github.com/schoolhub/backend/internal/interfaces/http/handler"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every resource handler the router mounts
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	School       *handler.SchoolHandler
	Class        *handler.ClassHandler
	Room         *handler.RoomHandler
	Curriculum   *handler.CurriculumHandler
	Lesson       *handler.LessonHandler
	Timetable    *handler.TimetableHandler
	Student      *handler.StudentHandler
	Teacher      *handler.TeacherHandler
	Attendance   *handler.AttendanceHandler
	ReportCard   *handler.ReportCardHandler
	Event        *handler.EventHandler
	Notification *handler.NotificationHandler
	Material     *handler.MaterialHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
}

// Options carries the router's infrastructure dependencies
type Options struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	Blacklist   auth.TokenBlacklist
	RateLimiter *middleware.RateLimiter
}

// New builds the gin engine with the full middleware chain and all
// routes mounted.
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(opts.Config.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(opts.Logger))
	engine.Use(middleware.RequestLogger(opts.Logger))
	engine.Use(middleware.CORS(&opts.Config.HTTP))
	engine.Use(middleware.BodyLimit(opts.Config.HTTP.MaxBodySize))
	if opts.Config.HTTP.RateLimitEnabled && opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	authed := middleware.Authenticate(opts.JWTService, opts.Blacklist, opts.Logger)

	platformAdmin := middleware.RequireRoles(identity.RoleSuperAdmin)
	schoolAdmin := middleware.RequireRoles(identity.RoleSchoolAdmin)
	schoolManagers := middleware.RequireRoles(identity.RoleSuperAdmin, identity.RoleSchoolAdmin, identity.RolePrincipal)
	schoolStaff := middleware.RequireRoles(identity.RoleSchoolAdmin, identity.RolePrincipal, identity.RoleTeacher)
	teachingStaff := middleware.RequireRoles(identity.RoleTeacher, identity.RolePrincipal, identity.RoleSchoolAdmin)
	teacherOnly := middleware.RequireRoles(identity.RoleTeacher)
	principalOnly := middleware.RequireRoles(identity.RolePrincipal)
	// report-card sign-off stays inside the school: no SUPER_ADMIN here
	reportApprovers := middleware.RequireRoles(identity.RolePrincipal, identity.RoleSchoolAdmin)
	parents := middleware.RequireRoles(identity.RoleParent)

	// public
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/schools", h.School.Register)
	api.GET("/payments/verify", h.Payment.Verify)

	api.POST("/auth/logout", authed, h.Auth.Logout)
	api.GET("/auth/me", authed, h.User.Me)
	api.POST("/payments/webhook", h.Payment.Webhook)

	schools := api.Group("/schools", authed)
	{
		schools.GET("", platformAdmin, h.School.List)
		schools.GET("/:id", h.School.Get)
		schools.POST("/:id/approve", platformAdmin, h.School.Approve)
		schools.POST("/:id/reject", platformAdmin, h.School.Reject)
		schools.PUT("/:id", schoolAdmin, h.School.Update)
		schools.PUT("/:id/settlement", schoolAdmin, h.School.SetSettlement)
		schools.POST("/:id/logo", schoolAdmin, h.School.UploadLogo)
		schools.DELETE("/:id", platformAdmin, h.School.Delete)
	}

	users := api.Group("/users", authed, schoolAdmin)
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.POST("/:id/deactivate", h.User.Deactivate)
		users.POST("/:id/activate", h.User.Activate)
	}

	classes := api.Group("/classes", authed)
	{
		classes.POST("", schoolManagers, h.Class.Create)
		classes.GET("", schoolStaff, h.Class.List)
		classes.GET("/:id", schoolStaff, h.Class.Get)
		classes.PUT("/:id", schoolManagers, h.Class.Update)
		classes.PUT("/:id/supervisor", schoolManagers, h.Class.AssignSupervisor)
		classes.DELETE("/:id", schoolManagers, h.Class.Delete)
		classes.GET("/:id/lessons", schoolStaff, h.Lesson.ListByClass)
		classes.GET("/:id/students", schoolStaff, h.Student.ListByClass)
		classes.GET("/:id/timetables", schoolManagers, h.Timetable.ListByClass)
		classes.GET("/:id/timetable", schoolStaff, h.Timetable.GetActiveByClass)
		classes.GET("/:id/report-cards", schoolManagers, h.ReportCard.ListByClass)
	}

	rooms := api.Group("/rooms", authed)
	{
		rooms.POST("", schoolManagers, h.Room.Create)
		rooms.GET("", schoolStaff, h.Room.List)
		rooms.GET("/:id", schoolStaff, h.Room.Get)
		rooms.PUT("/:id", schoolManagers, h.Room.Update)
		rooms.DELETE("/:id", schoolManagers, h.Room.Delete)
	}

	curricula := api.Group("/curricula", authed)
	{
		curricula.POST("", schoolManagers, h.Curriculum.Create)
		curricula.GET("", schoolStaff, h.Curriculum.List)
		curricula.GET("/:id", schoolStaff, h.Curriculum.Get)
		curricula.PUT("/:id", schoolManagers, h.Curriculum.Update)
		curricula.DELETE("/:id", schoolManagers, h.Curriculum.Delete)
		curricula.POST("/:id/subjects", schoolManagers, h.Curriculum.AddSubject)
		curricula.DELETE("/:id/subjects/:subjectId", schoolManagers, h.Curriculum.RemoveSubject)
	}

	lessons := api.Group("/lessons", authed)
	{
		lessons.POST("", schoolManagers, h.Lesson.Create)
		lessons.GET("/mine", teacherOnly, h.Lesson.ListMine)
		lessons.GET("/:id", schoolStaff, h.Lesson.Get)
		lessons.PUT("/:id/teacher", schoolManagers, h.Lesson.Reassign)
		lessons.DELETE("/:id", schoolManagers, h.Lesson.Delete)
		lessons.GET("/:id/attendance", schoolStaff, h.Attendance.ListByLesson)
	}

	timetables := api.Group("/timetables", authed, schoolManagers)
	{
		timetables.POST("", h.Timetable.Create)
		timetables.GET("/:id", h.Timetable.Get)
		timetables.POST("/:id/activate", h.Timetable.Activate)
		timetables.DELETE("/:id", h.Timetable.Delete)
		timetables.POST("/:id/slots", h.Timetable.AddSlot)
		timetables.PUT("/:id/slots/:slotId", h.Timetable.RescheduleSlot)
		timetables.POST("/:id/slots/:slotId/disable", h.Timetable.DisableSlot)
		timetables.POST("/:id/slots/:slotId/enable", h.Timetable.EnableSlot)
		timetables.DELETE("/:id/slots/:slotId", h.Timetable.RemoveSlot)
	}

	students := api.Group("/students", authed)
	{
		students.POST("", schoolManagers, h.Student.Enroll)
		students.GET("", schoolStaff, h.Student.List)
		students.GET("/:id", schoolStaff, h.Student.Get)
		students.PUT("/:id", schoolManagers, h.Student.Update)
		students.POST("/:id/transfer", schoolManagers, h.Student.Transfer)
		students.POST("/:id/photo", schoolManagers, h.Student.UploadPhoto)
		students.POST("/:id/withdraw", schoolManagers, h.Student.Withdraw)
		students.POST("/:id/guardians", schoolManagers, h.Student.LinkGuardian)
		students.DELETE("/:id/guardians/:guardianId", schoolManagers, h.Student.UnlinkGuardian)
		students.GET("/:id/guardians", schoolStaff, h.Student.ListGuardians)
		// any authenticated role: the service narrows parents to their
		// own wards' records
		students.GET("/:id/attendance", h.Attendance.ListByStudent)
		students.GET("/:id/report-cards", h.ReportCard.ListByStudent)
	}

	api.GET("/guardians/me/wards", authed, parents, h.Student.ListWards)

	teachers := api.Group("/teachers", authed)
	{
		teachers.POST("", schoolManagers, h.Teacher.Onboard)
		teachers.GET("", schoolStaff, h.Teacher.List)
		teachers.GET("/me", teacherOnly, h.Teacher.GetMine)
		teachers.GET("/:id", schoolStaff, h.Teacher.Get)
		teachers.PUT("/:id", schoolManagers, h.Teacher.Update)
		teachers.POST("/:id/verify", schoolManagers, h.Teacher.Verify)
		teachers.DELETE("/:id", schoolManagers, h.Teacher.Offboard)
	}

	api.POST("/attendance", authed, teacherOnly, h.Attendance.Mark)

	reportCards := api.Group("/report-cards", authed)
	{
		reportCards.POST("", teachingStaff, h.ReportCard.CreateDraft)
		reportCards.GET("/:id", h.ReportCard.Get)
		reportCards.PUT("/:id/scores", teachingStaff, h.ReportCard.SetScore)
		reportCards.PUT("/:id/remarks", teachingStaff, h.ReportCard.SetRemarks)
		reportCards.POST("/:id/approve", reportApprovers, h.ReportCard.Approve)
		reportCards.POST("/:id/publish", reportApprovers, h.ReportCard.Publish)
		reportCards.DELETE("/:id", reportApprovers, h.ReportCard.Delete)
	}

	events := api.Group("/events", authed)
	{
		events.POST("", principalOnly, h.Event.Create)
		events.GET("", h.Event.List)
		events.GET("/:id", h.Event.Get)
		events.PUT("/:id", schoolManagers, h.Event.Update)
		events.POST("/:id/image", schoolManagers, h.Event.UploadImage)
		events.DELETE("/:id", schoolManagers, h.Event.Delete)
		events.PUT("/:id/rsvp", parents, h.Event.RSVP)
		events.GET("/:id/rsvps", schoolManagers, h.Event.ListRSVPs)
	}

	notifications := api.Group("/notifications", authed)
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.POST("/:id/read", h.Notification.MarkRead)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
	}

	materials := api.Group("/materials", authed)
	{
		materials.POST("", schoolAdmin, h.Material.Create)
		materials.GET("", h.Material.List)
		materials.GET("/:id", h.Material.Get)
		materials.PUT("/:id", schoolAdmin, h.Material.Update)
		materials.POST("/:id/restock", schoolAdmin, h.Material.Restock)
		materials.POST("/:id/unlist", schoolAdmin, h.Material.Unlist)
		materials.POST("/:id/image", schoolAdmin, h.Material.UploadImage)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", parents, h.Order.Checkout)
		orders.GET("", schoolManagers, h.Order.List)
		orders.GET("/mine", parents, h.Order.ListMine)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/cancel", parents, h.Order.Cancel)
		orders.POST("/:id/fulfil", schoolManagers, h.Order.Fulfil)
		orders.POST("/:id/payments", parents, h.Payment.Initialize)
		orders.GET("/:id/payments", h.Payment.ListByOrder)
	}

	return engine
}
