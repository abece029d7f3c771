package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/attendance"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/handlers"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub001/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, trk *attendance.Tracker) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	att := handlers.NewAttendanceHandler(trk)
	adminAtt := handlers.NewAdminAttendanceHandler(trk)
	emp := handlers.NewEmployeeHandler()
	shift := handlers.NewShiftHandler()
	timeoff := handlers.NewTimeOffHandler()
	swap := handlers.NewSwapHandler()
	dash := handlers.NewDashboardHandler()
	report := handlers.NewReportHandler()

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Authenticated (ทุก role) =====
	api := e.Group("", authMW)

	api.GET("/auth/me", auth.Me)
	api.PUT("/auth/password", auth.ChangePassword)

	// บันทึกเวลาเข้า-ออกงานของตัวเอง
	api.POST("/attendance/clock-in", att.ClockIn)
	api.POST("/attendance/clock-out", att.ClockOut)
	api.POST("/attendance/break/start", att.StartBreak)
	api.POST("/attendance/break/end", att.EndBreak)
	api.GET("/attendance/status", att.Status)
	api.GET("/attendance/history", att.History)

	// ตารางเวรของตัวเอง
	api.GET("/shifts/mine", shift.MyAssignments)

	// การลา
	api.POST("/timeoff", timeoff.Create)
	api.GET("/timeoff/mine", timeoff.ListMine)
	api.POST("/timeoff/:id/cancel", timeoff.Cancel)

	// แลกเวร
	api.POST("/swaps", swap.Create)
	api.GET("/swaps/mine", swap.ListMine)
	api.POST("/swaps/:id/cancel", swap.Cancel)
	api.POST("/swaps/:id/accept", swap.Accept)
	api.POST("/swaps/:id/decline", swap.Decline)

	// สรุปของตัวเอง
	api.GET("/reports/mine", report.Mine)

	// ===== Admin / Manager =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin", "manager"))

	// Employees
	admin.GET("/employees", emp.List)
	admin.GET("/employees/:id", emp.Get)
	admin.POST("/employees", emp.Create)
	admin.PUT("/employees/:id", emp.Update)
	admin.DELETE("/employees/:id", emp.Delete)

	// Attendance management
	admin.GET("/attendance", adminAtt.List)
	admin.POST("/attendance/manual", adminAtt.ManualEntry)
	admin.PATCH("/attendance/:id", adminAtt.Update)
	admin.DELETE("/attendance/:id", adminAtt.Delete)
	admin.POST("/attendance/auto-clockout", adminAtt.AutoClockout)

	// Shifts
	admin.GET("/shifts", shift.List)
	admin.POST("/shifts", shift.Create)
	admin.PUT("/shifts/:id", shift.Update)
	admin.DELETE("/shifts/:id", shift.Delete)
	admin.GET("/shift-assignments", shift.ListAssignments)
	admin.POST("/shift-assignments", shift.Assign)
	admin.DELETE("/shift-assignments/:id", shift.Unassign)

	// Time off decisions
	admin.GET("/timeoff", timeoff.List)
	admin.GET("/timeoff/pending-count", timeoff.PendingCount)
	admin.POST("/timeoff/:id/approve", timeoff.Approve)
	admin.POST("/timeoff/:id/reject", timeoff.Reject)

	// Shift swaps
	admin.GET("/swaps", swap.List)
	admin.POST("/swaps/:id/approve", swap.Approve)
	admin.POST("/swaps/:id/reject", swap.Reject)

	// Dashboard & reports
	admin.GET("/dashboard/live", dash.Live)
	admin.GET("/dashboard/summary", dash.Summary)
	admin.GET("/reports/attendance", report.Attendance)
}
